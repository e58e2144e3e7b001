package cli

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/watch"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch [deck]",
		Short: "Reparse a deck whenever it or an include file changes",
		Long:  "Parse the deck, store the run, and repeat on every change until interrupted.",
		Args:  cobra.ExactArgs(1),
		Run:   runWatch,
	}

	cmd.Flags().Bool("no-store", false, "Do not write runs to the database")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	noStore, _ := cmd.Flags().GetBool("no-store")
	cfg := loadConfig()
	log := newLogger()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = watch.Watch(ctx, func() ([]string, error) {
		res, err := loadDeck(args[0])
		sum := summarize(res, err)
		if !noStore {
			run, serr := saveResult(cmd, s, res, err)
			if serr != nil {
				log.Error("save run", slog.String("error", serr.Error()))
			}
			sum.Run = run
		}
		printJSON(sum)
		return res.Files(), err
	}, watch.WithDebounce(cfg.Debounce()), watch.WithLogger(log))
	if err != nil {
		exitErr("watch", err)
	}
}
