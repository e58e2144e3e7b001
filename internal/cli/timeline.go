package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "timeline [deck]",
		Short: "Show the report steps of a deck with their events",
		Args:  cobra.ExactArgs(1),
		Run:   runTimeline,
	}

	RootCmd.AddCommand(cmd)
}

type stepLine struct {
	Step   int       `json:"step"`
	Start  time.Time `json:"start"`
	Days   float64   `json:"days,omitempty"`
	Events []string  `json:"events,omitempty"`
}

func runTimeline(cmd *cobra.Command, args []string) {
	res := mustLoadDeck(args[0])
	s := res.Schedule
	tm := s.TimeMap()

	out := make([]stepLine, 0, s.Size())
	for step := 0; step < s.Size(); step++ {
		start, err := tm.StartTime(step)
		if err != nil {
			exitErr("timeline", err)
		}
		line := stepLine{Step: step, Start: start, Events: s.Events(step).Names()}
		if step+1 < s.Size() {
			d, err := tm.StepLength(step)
			if err != nil {
				exitErr("timeline", err)
			}
			line.Days = d.Hours() / 24
		}
		out = append(out, line)
	}
	printJSON(out)
}
