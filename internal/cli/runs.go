package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored parse runs",
		Run:   runRuns,
	}

	cmd.Flags().StringP("path", "p", "", "Only runs of this deck")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	rm := &cobra.Command{
		Use:   "rm [run-id]",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		Run:   runRunsRm,
	}
	rm.Flags().Bool("hard", false, "Remove the rows instead of marking the run deleted")

	cmd.AddCommand(rm)
	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString("path")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), store.ListParams{Path: path, Limit: limit})
	if err != nil {
		exitErr("runs", err)
	}
	if len(runs) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(runs)
}

func runRunsRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteRun(cmd.Context(), store.DeleteParams{RunID: args[0], Hard: hard}); err != nil {
		exitErr("rm", err)
	}
	printJSON(map[string]any{"deleted": args[0], "hard": hard})
}
