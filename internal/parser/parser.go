// Package parser turns deck text into a deck.Deck.
//
// Lines are cleaned, grouped into raw keywords by a small state machine and
// typed against the keyword schemas of a frozen registry. INCLUDE files are
// inlined depth first at the point of the INCLUDE keyword.
package parser

import (
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/schema"
)

// Parser parses decks against a schema registry. A Parser holds no per-deck
// state and may be reused; it must not be used by two goroutines at once.
type Parser struct {
	reg          *schema.Registry
	ctx          *diag.ParseContext
	fs           billy.Filesystem
	osBacked     bool
	log          diag.Logger
	checkSection bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithParseContext sets the policy for recoverable problems.
func WithParseContext(ctx *diag.ParseContext) Option {
	return func(p *Parser) { p.ctx = ctx }
}

// WithFilesystem reads decks and include files from fs instead of the OS.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(p *Parser) {
		p.fs = fs
		p.osBacked = false
	}
}

// WithLogger enables debug logging of the parse.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = diag.NewLogger(l, "parser") }
}

// WithSectionCheck turns the section topology check on or off. It is on by
// default; fragments such as include files are best parsed without it.
func WithSectionCheck(enabled bool) Option {
	return func(p *Parser) { p.checkSection = enabled }
}

// New returns a Parser for reg.
func New(reg *schema.Registry, opts ...Option) *Parser {
	p := &Parser{
		reg:          reg,
		ctx:          diag.NewParseContext(),
		fs:           osfs.New("/"),
		osBacked:     true,
		checkSection: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile parses the deck at path. Relative INCLUDE paths resolve against
// the directory of path, however deeply the INCLUDE is nested.
func (p *Parser) ParseFile(path string) (*deck.Deck, *diag.Messages, error) {
	if p.osBacked {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, diag.Wrap(err, diag.IO, diag.CodeReadFailed, "resolve %s", path)
		}
		path = abs
	}
	data, err := util.ReadFile(p.fs, path)
	if err != nil {
		return nil, nil, diag.Wrap(err, diag.IO, diag.CodeReadFailed, "read deck %s", path)
	}
	s := p.newState(filepath.Dir(path))
	s.deck.SetPath(path)
	s.push(path, string(data))
	return s.run()
}

// ParseString parses deck text. Relative INCLUDE paths resolve against the
// working directory.
func (p *Parser) ParseString(data string) (*deck.Deck, *diag.Messages, error) {
	dir := "."
	if p.osBacked {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	s := p.newState(dir)
	s.push("", data)
	return s.run()
}

func (s *state) run() (*deck.Deck, *diag.Messages, error) {
	if err := s.parse(); err != nil {
		return nil, nil, err
	}
	if err := s.postProcess(); err != nil {
		return nil, nil, err
	}
	return s.deck, s.msgs, nil
}

func (s *state) postProcess() error {
	units := s.deck.SelectUnits()
	if err := s.deck.PushDimensions(); err != nil {
		return err
	}
	s.p.log.Log(slog.LevelDebug, "deck parsed",
		slog.Int("keywords", s.deck.Size()),
		slog.String("units", units.String()),
		slog.Int("messages", s.msgs.Len()))
	if !s.p.checkSection {
		return nil
	}
	_, err := s.deck.CheckSections(s.p.ctx, s.msgs)
	return err
}
