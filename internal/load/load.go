// Package load runs a deck file through the parser, the static model and
// the schedule builder.
package load

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/parser"
	"github.com/rcliao/simdeck/internal/props"
	"github.com/rcliao/simdeck/internal/schedule"
	"github.com/rcliao/simdeck/internal/schema"
)

// Options configures File. The zero value parses from the OS with the
// built-in schemas and the lenient policy.
type Options struct {
	Registry *schema.Registry
	Context  *diag.ParseContext
	FS       billy.Filesystem
	Logger   *slog.Logger
}

// Result is everything derived from one deck. After a failed load the
// fields reached before the failure are set.
type Result struct {
	Path     string
	Checksum string
	Deck     *deck.Deck
	Static   *props.State
	Schedule *schedule.Schedule
	Messages *diag.Messages
}

// File loads the deck at path.
func File(path string, o Options) (*Result, error) {
	fs := o.FS
	if fs == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return &Result{Path: path}, fmt.Errorf("resolve %s: %w", path, err)
		}
		path = abs
		fs = osfs.New("/")
	}
	res := &Result{Path: path, Messages: &diag.Messages{}}

	data, err := util.ReadFile(fs, path)
	if err != nil {
		return res, diag.Wrap(err, diag.IO, diag.CodeReadFailed, "read deck %s", path)
	}
	sum := sha256.Sum256(data)
	res.Checksum = hex.EncodeToString(sum[:])

	reg := o.Registry
	if reg == nil {
		if reg, err = schema.Builtin(); err != nil {
			return res, fmt.Errorf("load schemas: %w", err)
		}
	}
	popts := []parser.Option{parser.WithFilesystem(fs), parser.WithLogger(o.Logger)}
	if o.Context != nil {
		popts = append(popts, parser.WithParseContext(o.Context))
	}
	d, msgs, err := parser.New(reg, popts...).ParseFile(path)
	if err != nil {
		return res, err
	}
	res.Deck = d
	res.Messages = msgs

	st, err := props.Build(d, nil)
	if err != nil {
		return res, err
	}
	res.Static = st

	s, err := schedule.New(d, st.Grid,
		schedule.WithProperties(st.Props),
		schedule.WithMessages(msgs),
		schedule.WithLogger(o.Logger))
	if err != nil {
		return res, err
	}
	res.Schedule = s
	return res, nil
}

// Files returns the deck file and every include file that contributed
// keywords, sorted.
func (r *Result) Files() []string {
	seen := map[string]bool{r.Path: true}
	if r.Deck != nil {
		for _, k := range r.Deck.Keywords() {
			if k.File != "" {
				seen[k.File] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
