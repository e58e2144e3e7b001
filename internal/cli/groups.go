package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show the stored group tree of a run",
		Run:   runGroups,
	}

	cmd.Flags().String("run", "", "Run id (default: the latest run)")
	cmd.Flags().IntP("step", "s", -1, "Tree in force at this step (default: the last)")

	RootCmd.AddCommand(cmd)
}

type groupNode struct {
	Name     string       `json:"name"`
	Children []*groupNode `json:"children,omitempty"`
}

func runGroups(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	step, _ := cmd.Flags().GetInt("step")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	edges, err := s.GroupEdges(cmd.Context(), runID, step)
	if err != nil {
		exitErr("groups", err)
	}

	// Edges come sorted by parent then child, so children keep that order.
	nodes := map[string]*groupNode{schedule.FieldGroup: {Name: schedule.FieldGroup}}
	node := func(name string) *groupNode {
		if n, ok := nodes[name]; ok {
			return n
		}
		n := &groupNode{Name: name}
		nodes[name] = n
		return n
	}
	for _, e := range edges {
		p := node(e.Parent)
		p.Children = append(p.Children, node(e.Child))
	}
	printJSON(nodes[schedule.FieldGroup])
}
