package parser

import (
	"log/slog"
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/lexer"
	"github.com/rcliao/simdeck/internal/schema"
)

// rawRecord is the text of one record without its terminating slash.
type rawRecord struct {
	text string
	line int
}

// rawKeyword collects the records of a keyword while its lines are read.
type rawKeyword struct {
	name   string
	schema *schema.Keyword
	file   string
	line   int
	// target is the expected record count, -1 when the keyword is closed by
	// a terminator or by the next keyword.
	target  int
	records []rawRecord
	partial []string
	start   int
	raw     []string
}

func (k *rawKeyword) pending() bool {
	return len(k.partial) > 0
}

type state struct {
	p       *Parser
	deck    *deck.Deck
	msgs    *diag.Messages
	stack   []*source
	rootDir string
	aliases map[string]string

	open *rawKeyword
	// section is the last section header read, empty before the first.
	section string
	// afterFixed is set once a fixed size keyword has all its records, until
	// the next keyword starts. Data seen meanwhile are extra records.
	afterFixed bool
	stop       bool
}

func (p *Parser) newState(rootDir string) *state {
	return &state{
		p:       p,
		deck:    deck.New(),
		msgs:    &diag.Messages{},
		rootDir: rootDir,
		aliases: make(map[string]string),
	}
}

// inline keywords act on the parse itself and never reach the deck.
var inline = map[string]func(*state, *deck.Keyword) error{
	"END":     (*state).end,
	"ENDINC":  (*state).endInclude,
	"INCLUDE": (*state).include,
	"PATHS":   (*state).addPaths,
}

func (s *state) end(*deck.Keyword) error {
	s.stop = true
	return nil
}

func (s *state) endInclude(*deck.Keyword) error {
	if len(s.stack) > 0 {
		s.pop()
	}
	return nil
}

func (s *state) parse() error {
	for !s.stop {
		ln, ok := s.nextLine()
		if !ok {
			break
		}
		if err := s.handle(ln); err != nil {
			return err
		}
	}
	if s.open != nil {
		return s.finish()
	}
	return nil
}

func (s *state) handle(ln line) error {
	if s.open != nil {
		consumed, err := s.feed(ln)
		if err != nil || consumed {
			return err
		}
	}
	return s.between(ln)
}

// keywordLine reports the keyword a cleaned line starts, if it is a line
// holding nothing but a recognised keyword name.
func (s *state) keywordLine(clean string) (string, *schema.Keyword, bool) {
	if !lexer.IsSingleField(clean) || strings.Contains(clean, "/") {
		return "", nil, false
	}
	name, ok := lexer.KeywordCandidate(clean)
	if !ok {
		return "", nil, false
	}
	sch, ok := s.p.reg.LookupIn(name, s.section)
	return name, sch, ok
}

// between handles a line read while no keyword is open.
func (s *state) between(ln line) error {
	if ln.clean == "" {
		return nil
	}
	if name, ok := lexer.KeywordCandidate(ln.clean); ok {
		if sch, known := s.p.reg.LookupIn(name, s.section); known {
			s.afterFixed = false
			return s.start(name, sch, ln)
		}
		if lexer.IsSingleField(ln.clean) {
			s.afterFixed = false
			if err := s.p.ctx.Handle(diag.UnknownKeyword, s.msgs, ln.file, ln.num,
				"unknown keyword "+name); err != nil {
				return err
			}
			s.open = &rawKeyword{name: name, file: ln.file, line: ln.num, target: -1}
			return nil
		}
	}
	if s.afterFixed {
		return s.p.ctx.Handle(diag.ExtraRecords, s.msgs, ln.file, ln.num,
			"extra record after a keyword of fixed size: "+ln.clean)
	}
	if ln.clean == "/" {
		return s.p.ctx.Handle(diag.RandomSlash, s.msgs, ln.file, ln.num, "stray '/' between keywords")
	}
	return s.p.ctx.Handle(diag.RandomText, s.msgs, ln.file, ln.num, "unexpected text: "+ln.clean)
}

func (s *state) start(name string, sch *schema.Keyword, ln line) error {
	k := &rawKeyword{name: name, schema: sch, file: ln.file, line: ln.num, target: -1}
	if deck.IsSectionName(name) {
		s.section = name
	}
	switch sch.Size {
	case schema.Fixed:
		k.target = sch.FixedSize
	case schema.OtherKeyword:
		n, err := s.resolveSize(sch)
		if err != nil {
			return diag.Locate(err, ln.file, ln.num)
		}
		k.target = n
	}
	if k.target == 0 {
		return s.complete(k)
	}
	s.open = k
	return nil
}

// feed offers ln to the open keyword. consumed is false when ln closed the
// keyword without belonging to it; the caller then handles ln afresh.
func (s *state) feed(ln line) (consumed bool, err error) {
	k := s.open
	if k.schema == nil {
		if _, _, ok := s.keywordLine(ln.clean); ok {
			return false, s.finish()
		}
		if ln.clean != "" {
			k.raw = append(k.raw, ln.clean)
		}
		return true, nil
	}

	if k.schema.IsRawString() {
		text := strings.TrimSpace(lexer.StripComments(ln.raw))
		if text == "" {
			return true, nil
		}
		k.records = append(k.records, rawRecord{text: text, line: ln.num})
		if len(k.records) == k.target {
			return true, s.finish()
		}
		return true, nil
	}

	if ln.clean == "" {
		return true, nil
	}
	if !k.pending() {
		_, _, isKeyword := s.keywordLine(ln.clean)
		switch {
		case k.schema.Size == schema.SlashTerminated && ln.clean == "/":
			return true, s.finish()
		case isKeyword && k.target < 0:
			return false, s.finish()
		case isKeyword:
			return true, diag.FormatAt(ln.file, ln.num, diag.Schema, diag.CodeRecordCount,
				"keyword %s expects %d records, found %d", k.name, k.target, len(k.records))
		}
	}

	body, terminated := lexer.SplitTerminated(ln.clean)
	if body != "" {
		if !k.pending() {
			k.start = ln.num
		}
		k.partial = append(k.partial, body)
	}
	if !terminated {
		return true, nil
	}
	startLine := k.start
	if !k.pending() {
		startLine = ln.num
	}
	k.records = append(k.records, rawRecord{text: strings.Join(k.partial, " "), line: startLine})
	k.partial = k.partial[:0]
	if k.target > 0 && len(k.records) == k.target {
		return true, s.finish()
	}
	return true, nil
}

// finish closes the open keyword.
func (s *state) finish() error {
	k := s.open
	s.open = nil
	if k.pending() {
		return diag.FormatAt(k.file, k.start, diag.Schema, diag.CodeRecordCount,
			"keyword %s: record is not terminated by '/'", k.name)
	}
	if k.target > 0 && len(k.records) < k.target {
		return diag.FormatAt(k.file, k.line, diag.Schema, diag.CodeRecordCount,
			"keyword %s expects %d records, found %d", k.name, k.target, len(k.records))
	}
	return s.complete(k)
}

// complete types the raw records and adds the keyword to the deck, or runs
// it when it is an inline keyword.
func (s *state) complete(k *rawKeyword) error {
	dk := deck.NewKeyword(k.name, k.file, k.line, k.schema)
	if k.schema == nil {
		dk.Raw = k.raw
		s.deck.Add(dk)
		return nil
	}
	for i, rr := range k.records {
		rec, err := parseRecord(k.schema.Record(i), rr.text, k.schema.IsRawString())
		if err != nil {
			return diag.Locate(err, k.file, rr.line)
		}
		dk.AddRecord(rec)
	}
	if fn, ok := inline[k.name]; ok {
		return fn(s, dk)
	}
	s.deck.Add(dk)
	s.afterFixed = k.schema.Size == schema.Fixed && k.target > 0
	s.p.log.Log(slog.LevelDebug, "keyword",
		slog.String("name", k.name),
		slog.String("file", k.file),
		slog.Int("line", k.line),
		slog.Int("records", len(k.records)))
	return nil
}
