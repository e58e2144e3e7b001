package parser

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/lexer"
)

// source is one file on the include stack.
type source struct {
	path  string
	lines []string
	next  int
}

func (src *source) done() bool {
	return src.next >= len(src.lines)
}

// push makes text the current input until it is exhausted or ENDINC pops it.
func (s *state) push(path, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	s.stack = append(s.stack, &source{path: path, lines: strings.Split(text, "\n")})
}

func (s *state) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// line is one input line with its location.
type line struct {
	raw   string
	clean string
	file  string
	num   int
}

// nextLine returns the next input line, unwinding finished include files.
func (s *state) nextLine() (line, bool) {
	for len(s.stack) > 0 {
		src := s.stack[len(s.stack)-1]
		if src.done() {
			s.pop()
			continue
		}
		raw := src.lines[src.next]
		src.next++
		return line{raw: raw, clean: lexer.CleanLine(raw), file: src.path, num: src.next}, true
	}
	return line{}, false
}

// include resolves an INCLUDE path and pushes the file. Relative paths are
// taken from the root deck directory.
func (s *state) include(k *deck.Keyword) error {
	r, err := k.Record(0)
	if err != nil {
		return err
	}
	it, err := r.Item("IncludeFile")
	if err != nil {
		return diag.Locate(err, k.File, k.Line)
	}
	name, err := it.String(0)
	if err != nil {
		return diag.Locate(err, k.File, k.Line)
	}

	if strings.Contains(name, `\`) {
		if err := s.p.ctx.Handle(diag.BackslashPath, s.msgs, k.File, k.Line,
			"replacing backslashes in include path "+name); err != nil {
			return err
		}
		name = strings.ReplaceAll(name, `\`, "/")
	}
	name = s.expandAliases(name)

	path := filepath.FromSlash(name)
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.rootDir, path)
	}
	data, err := util.ReadFile(s.p.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.p.ctx.Handle(diag.MissingInclude, s.msgs, k.File, k.Line,
				"include file "+path+" does not exist")
		}
		return diag.Locate(diag.Wrap(err, diag.IO, diag.CodeReadFailed, "read include %s", path), k.File, k.Line)
	}
	s.p.log.Log(slog.LevelDebug, "include", slog.String("path", path), slog.Int("depth", len(s.stack)))
	s.push(path, string(data))
	return nil
}

// expandAliases substitutes $NAME with PATHS values. Longer names are tried
// first so that $DIR2 is not taken for $DIR.
func (s *state) expandAliases(path string) string {
	if !strings.Contains(path, "$") || len(s.aliases) == 0 {
		return path
	}
	names := make([]string, 0, len(s.aliases))
	for n := range s.aliases {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, n := range names {
		path = strings.ReplaceAll(path, "$"+n, s.aliases[n])
	}
	return path
}

// addPaths registers the aliases of a PATHS keyword.
func (s *state) addPaths(k *deck.Keyword) error {
	for _, r := range k.Records() {
		nameItem, err := r.Item("PathName")
		if err != nil {
			return diag.Locate(err, k.File, k.Line)
		}
		valueItem, err := r.Item("PathValue")
		if err != nil {
			return diag.Locate(err, k.File, k.Line)
		}
		name, err := nameItem.String(0)
		if err != nil {
			return diag.Locate(err, k.File, k.Line)
		}
		value, err := valueItem.String(0)
		if err != nil {
			return diag.Locate(err, k.File, k.Line)
		}
		s.aliases[name] = value
	}
	return nil
}
