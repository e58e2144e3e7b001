// Package cli implements the simdeck CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/config"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/load"
	"github.com/rcliao/simdeck/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool
	strict     bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "simdeck",
	Short: "Parse and inspect reservoir simulation decks",
	Long:  "Parse ECLIPSE style input decks, build the well and group schedule, and keep parse runs in a SQLite database.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SIMDECK_DB or ~/.simdeck/runs.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $SIMDECK_CONFIG or ~/.simdeck/simdeck.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	RootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat every recoverable deck problem as an error")
}

func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	if strict {
		cfg.Strict = true
	}
	return cfg
}

func getDBPath() string {
	return loadConfig().DBPath(dbPath)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadDeck runs the deck at path through the parser and the schedule with
// the configured policy. Messages go to stderr.
func loadDeck(path string) (*load.Result, error) {
	ctx, err := loadConfig().ParseContext()
	if err != nil {
		exitErr("parse policy", err)
	}
	res, err := load.File(path, load.Options{Context: ctx, Logger: newLogger()})
	if res != nil {
		printMessages(res.Messages)
	}
	return res, err
}

// mustLoadDeck is loadDeck for commands that need a complete result.
func mustLoadDeck(path string) *load.Result {
	res, err := loadDeck(path)
	if err != nil {
		exitErr("load "+path, err)
	}
	return res
}

func printMessages(msgs *diag.Messages) {
	if msgs == nil {
		return
	}
	for _, m := range msgs.All() {
		fmt.Fprintln(os.Stderr, m.String())
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
