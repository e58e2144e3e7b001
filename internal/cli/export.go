package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a stored run as JSON",
		Long:  "Export a run with its keywords, well states, group tree and diagnostics. Without an id the latest run is exported.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	runID := ""
	if len(args) == 1 {
		runID = args[0]
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exp, err := s.ExportRun(cmd.Context(), runID)
	if err != nil {
		exitErr("export", err)
	}
	printJSON(exp)
}
