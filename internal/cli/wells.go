package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/schedule"
	"github.com/rcliao/simdeck/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "wells [deck]",
		Short: "Show the wells of a deck at a report step",
		Args:  cobra.ExactArgs(1),
		Run:   runWells,
	}

	cmd.Flags().IntP("step", "s", -1, "Report step (default: the last)")
	cmd.Flags().Bool("completions", false, "Include the completions of each well")

	RootCmd.AddCommand(cmd)

	well := &cobra.Command{
		Use:   "well [name]",
		Short: "Show the stored states of a well",
		Long:  "Show the state of a well in a stored run. A new version is stored at every step where the state changes.",
		Args:  cobra.ExactArgs(1),
		Run:   runWell,
	}

	well.Flags().String("run", "", "Run id (default: the latest run)")
	well.Flags().IntP("step", "s", -1, "State in force at this step (default: the last)")
	well.Flags().Bool("history", false, "Return all versions (newest first)")

	RootCmd.AddCommand(well)
}

type wellLine struct {
	Name        string                `json:"name"`
	Group       string                `json:"group"`
	Status      schedule.Status       `json:"status"`
	Producer    bool                  `json:"producer"`
	Control     string                `json:"control,omitempty"`
	RefDepth    float64               `json:"ref_depth"`
	Completions int                   `json:"completions"`
	Open        int                   `json:"open_completions"`
	Segments    int                   `json:"segments,omitempty"`
	Detail      []schedule.Completion `json:"completion_list,omitempty"`
}

func runWells(cmd *cobra.Command, args []string) {
	step, _ := cmd.Flags().GetInt("step")
	detail, _ := cmd.Flags().GetBool("completions")

	s := mustLoadDeck(args[0]).Schedule
	if step < 0 {
		step = s.Size() - 1
	}
	if step >= s.Size() {
		exitErr("wells", fmt.Errorf("step %d outside 0..%d", step, s.Size()-1))
	}

	out := []wellLine{}
	for _, w := range s.Wells(step) {
		cs := w.Completions(step)
		line := wellLine{
			Name:        w.Name(),
			Group:       w.Group(step),
			Status:      w.Status(step),
			Producer:    w.IsProducer(step),
			RefDepth:    w.RefDepth(step),
			Completions: cs.Size(),
		}
		for _, c := range cs.All() {
			if c.Status == schedule.Open {
				line.Open++
			}
		}
		if line.Producer {
			line.Control = string(w.Production(step).CMode)
		} else {
			line.Control = string(w.Injection(step).CMode)
		}
		if ss := w.Segments(step); ss != nil {
			line.Segments = ss.Size()
		}
		if detail {
			line.Detail = cs.All()
		}
		out = append(out, line)
	}
	printJSON(out)
}

func runWell(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	step, _ := cmd.Flags().GetInt("step")
	history, _ := cmd.Flags().GetBool("history")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	states, err := s.WellHistory(cmd.Context(), store.WellParams{
		RunID:   runID,
		Well:    args[0],
		History: history,
		Step:    step,
	})
	if err != nil {
		exitErr("well", err)
	}

	if history || len(states) > 1 {
		printJSON(states)
	} else {
		printJSON(states[0])
	}
}
