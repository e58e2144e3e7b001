package lexer

import "testing"

func TestTokenize(t *testing.T) {
	toks, err := Tokenize(`'OP 1' G1 3*  2*'SHUT' 1.5E+3 "x"`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []Token{
		{Raw: "'OP 1'", Quoted: true},
		{Raw: "G1"},
		{Raw: "3*"},
		{Raw: "2*'SHUT'", Quoted: true},
		{Raw: "1.5E+3"},
		{Raw: `"x"`, Quoted: true},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: expected %+v, got %+v", i, want[i], toks[i])
		}
	}
	if toks[0].Value() != "OP 1" {
		t.Errorf("expected unquoted value 'OP 1', got %q", toks[0].Value())
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	if _, err := Tokenize("'abc 1 2"); err == nil {
		t.Fatal("expected unterminated quote error")
	}
}

func TestParseRepeat(t *testing.T) {
	tests := []struct {
		raw       string
		ok        bool
		count     int
		value     string
		defaulted bool
		wantErr   bool
	}{
		{raw: "*", ok: true, count: 1, defaulted: true},
		{raw: "3*", ok: true, count: 3, defaulted: true},
		{raw: "4*0.25", ok: true, count: 4, value: "0.25"},
		{raw: "2*'SHUT'", ok: true, count: 2, value: "SHUT"},
		{raw: "P*", ok: false},
		{raw: "'3*'", ok: false},
		{raw: "12", ok: false},
		{raw: "2.5*1", wantErr: true},
		{raw: "0*", wantErr: true},
	}
	for _, tt := range tests {
		tok := Token{Raw: tt.raw, Quoted: tt.raw != "" && (tt.raw[0] == '\'' || tt.raw[len(tt.raw)-1] == '\'')}
		r, ok, err := ParseRepeat(tok)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.raw, err)
			continue
		}
		if ok != tt.ok {
			t.Errorf("%q: expected ok=%v, got %v", tt.raw, tt.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if r.Count != tt.count || r.Defaulted != tt.defaulted || r.Value.Value() != tt.value {
			t.Errorf("%q: unexpected repeat %+v", tt.raw, r)
		}
	}
}

func TestKeywordCandidate(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"WELSPECS", "WELSPECS", true},
		{"WCONPRODX", "WCONPROD", true},
		{"DATES /", "DATES", true},
		{"'OP1' 1 /", "", false},
		{"1 2 3 /", "", false},
		{"", "", false},
		{"lower", "", false},
	}
	for _, tt := range tests {
		name, ok := KeywordCandidate(tt.line)
		if ok != tt.ok || name != tt.name {
			t.Errorf("KeywordCandidate(%q): expected (%q,%v), got (%q,%v)", tt.line, tt.name, tt.ok, name, ok)
		}
	}
}
