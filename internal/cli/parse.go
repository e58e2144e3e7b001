package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/load"
	"github.com/rcliao/simdeck/internal/model"
	"github.com/rcliao/simdeck/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse [deck]",
		Short: "Parse a deck and store the run",
		Long:  "Parse a deck with its include files, build the schedule, and store the result. Failed parses are stored too.",
		Args:  cobra.ExactArgs(1),
		Run:   runParse,
	}

	cmd.Flags().Bool("no-store", false, "Do not write the run to the database")

	RootCmd.AddCommand(cmd)
}

// parseSummary is the output of parse and watch.
type parseSummary struct {
	Run      *model.Run     `json:"run,omitempty"`
	Path     string         `json:"path"`
	Keywords int            `json:"keywords"`
	Steps    int            `json:"steps"`
	Wells    []string       `json:"wells"`
	Messages []diag.Message `json:"messages,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) {
	noStore, _ := cmd.Flags().GetBool("no-store")

	res, err := loadDeck(args[0])
	sum := summarize(res, err)

	if !noStore {
		s, serr := openStore()
		if serr != nil {
			exitErr("open store", serr)
		}
		defer s.Close()
		sum.Run, serr = saveResult(cmd, s, res, err)
		if serr != nil {
			exitErr("save run", serr)
		}
	}

	printJSON(sum)
	if err != nil {
		exitErr("parse", err)
	}
}

func summarize(res *load.Result, err error) parseSummary {
	sum := parseSummary{Path: res.Path, Wells: []string{}}
	if err != nil {
		sum.Error = err.Error()
	}
	if res.Deck != nil {
		sum.Keywords = res.Deck.Size()
	}
	if res.Schedule != nil {
		sum.Steps = res.Schedule.Size()
		sum.Wells = res.Schedule.WellNames()
	}
	if res.Messages != nil {
		sum.Messages = res.Messages.All()
	}
	return sum
}

func saveResult(cmd *cobra.Command, s *store.SQLiteStore, res *load.Result, err error) (*model.Run, error) {
	return s.SaveRun(cmd.Context(), store.RunParams{
		Path:     res.Path,
		Checksum: res.Checksum,
		Deck:     res.Deck,
		Schedule: res.Schedule,
		Messages: res.Messages,
		Err:      err,
	})
}
