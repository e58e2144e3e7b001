package lexer

import "testing"

func TestStripComments(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"WELSPECS -- wells", "WELSPECS "},
		{"-- full comment", ""},
		{"'A--B' 1 /", "'A--B' 1 /"},
		{`"A--B" 2 -- tail`, `"A--B" 2 `},
		{"'unbalanced -- kept", "'unbalanced -- kept"},
		{"1 2 -- 'x", "1 2 "},
		{"no comment", "no comment"},
		{"a - b", "a - b"},
	}
	for _, tt := range tests {
		if got := StripComments(tt.in); got != tt.want {
			t.Errorf("StripComments(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestStripCommentsIdempotent(t *testing.T) {
	lines := []string{
		"a -- b -- c",
		"'x -- y' -- z",
		"'open -- never closed",
		`"a" 'b' -- "c"`,
		"",
		"----",
	}
	for _, l := range lines {
		once := StripComments(l)
		if twice := StripComments(once); twice != once {
			t.Errorf("not idempotent for %q: %q vs %q", l, once, twice)
		}
	}
}

func TestStripSlash(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 2 3 / trailing text", "1 2 3 /"},
		{"'a/b' / c", "'a/b' /"},
		{"'unbalanced / x", "'unbalanced / x"},
		{"no slash", "no slash"},
	}
	for _, tt := range tests {
		if got := StripSlash(tt.in); got != tt.want {
			t.Errorf("StripSlash(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestCleanLine(t *testing.T) {
	if got := CleanLine("   'OP1' 'G1' 1 1 / -- producer"); got != "'OP1' 'G1' 1 1 /" {
		t.Errorf("unexpected clean line %q", got)
	}
	if got := CleanLine("  -- only comment  "); got != "" {
		t.Errorf("expected empty line, got %q", got)
	}
}

func TestFindTerminatorSkipsQuotedSpans(t *testing.T) {
	line := `'a/b' "c/d" e/`
	if pos := FindTerminator(line, IsSlash); pos != len(line)-1 {
		t.Errorf("expected slash at %d, got %d", len(line)-1, pos)
	}
}

func TestFindTerminatorLongLine(t *testing.T) {
	b := make([]byte, 0, 300000)
	for i := 0; i < 50000; i++ {
		b = append(b, "'x' "...)
	}
	b = append(b, '/')
	line := string(b)
	if pos := FindTerminator(line, IsSlash); pos != len(line)-1 {
		t.Errorf("expected terminator at end, got %d", pos)
	}
}

func TestSplitTerminated(t *testing.T) {
	body, ok := SplitTerminated("1 2 3 /")
	if !ok || body != "1 2 3" {
		t.Errorf("expected terminated body '1 2 3', got %q ok=%v", body, ok)
	}
	if _, ok := SplitTerminated("1 2 3"); ok {
		t.Error("expected unterminated line")
	}
}
