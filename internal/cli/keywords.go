package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "keywords [deck]",
		Short: "List the keywords of a deck",
		Args:  cobra.ExactArgs(1),
		Run:   runKeywords,
	}

	cmd.Flags().StringP("name", "n", "", "Only keywords with this name")
	cmd.Flags().Bool("records", false, "Include typed records as JSON")
	cmd.Flags().Bool("text", false, "Print keywords back as deck text")

	RootCmd.AddCommand(cmd)

	sections := &cobra.Command{
		Use:   "sections [deck]",
		Short: "List the sections of a deck with their keyword counts",
		Args:  cobra.ExactArgs(1),
		Run:   runSections,
	}
	RootCmd.AddCommand(sections)
}

type keywordLine struct {
	Name    string `json:"name"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Records int    `json:"records"`
	Known   bool   `json:"known"`
}

func runKeywords(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	withRecords, _ := cmd.Flags().GetBool("records")
	asText, _ := cmd.Flags().GetBool("text")

	// Keywords are listed even when the schedule cannot be built.
	res, err := loadDeck(args[0])
	if res.Deck == nil {
		exitErr("parse", err)
	}

	var kws []*deck.Keyword
	for _, k := range res.Deck.Keywords() {
		if name == "" || k.Name == strings.ToUpper(name) {
			kws = append(kws, k)
		}
	}

	switch {
	case asText:
		for _, k := range kws {
			fmt.Println(store.RenderKeyword(k))
		}
	case withRecords:
		printJSON(kws)
	default:
		out := make([]keywordLine, 0, len(kws))
		for _, k := range kws {
			out = append(out, keywordLine{Name: k.Name, File: k.File, Line: k.Line, Records: k.Size(), Known: k.Known()})
		}
		printJSON(out)
	}
}

type sectionLine struct {
	Name     string `json:"name"`
	Keywords int    `json:"keywords"`
}

func runSections(cmd *cobra.Command, args []string) {
	res, err := loadDeck(args[0])
	if res.Deck == nil {
		exitErr("parse", err)
	}
	out := []sectionLine{}
	for _, name := range []string{deck.Runspec, deck.Grid, deck.Edit, deck.Props, deck.Regions,
		deck.Solution, deck.Summary, deck.Schedule} {
		if s, ok := res.Deck.Section(name); ok {
			out = append(out, sectionLine{Name: name, Keywords: s.Size()})
		}
	}
	printJSON(out)
}
