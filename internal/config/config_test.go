package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/simdeck/internal/diag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simdeck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Strict || c.DB != "" || c.Debounce() != DefaultDebounce {
		t.Errorf("expected defaults, got %+v", c)
	}
}

func TestLoadPolicy(t *testing.T) {
	t.Setenv("SIMDECK_DB", "")
	c, err := Load(writeConfig(t, `db: /tmp/x.db
strict: false
policy:
  unknown_keyword: throw
  MISSING_INCLUDE: warn
watch:
  debounce: 1s
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBPath("") != "/tmp/x.db" {
		t.Errorf("db = %q", c.DBPath(""))
	}
	if c.DBPath("/flag.db") != "/flag.db" {
		t.Error("flag should win over the config file")
	}
	if c.Debounce() != time.Second {
		t.Errorf("debounce = %s", c.Debounce())
	}
	ctx, err := c.ParseContext()
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Action(diag.UnknownKeyword) != diag.Throw {
		t.Errorf("UNKNOWN_KEYWORD = %s", ctx.Action(diag.UnknownKeyword))
	}
	if ctx.Action(diag.MissingInclude) != diag.Warn {
		t.Errorf("MISSING_INCLUDE = %s", ctx.Action(diag.MissingInclude))
	}
	if ctx.Action(diag.RandomText) != diag.Warn {
		t.Errorf("RANDOM_TEXT = %s", ctx.Action(diag.RandomText))
	}
}

func TestStrictWithOverride(t *testing.T) {
	c := &Config{Strict: true, Policy: map[string]string{"RANDOM_TEXT": "ignore"}}
	ctx, err := c.ParseContext()
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Action(diag.UnknownKeyword) != diag.Throw {
		t.Errorf("strict UNKNOWN_KEYWORD = %s", ctx.Action(diag.UnknownKeyword))
	}
	if ctx.Action(diag.RandomText) != diag.Ignore {
		t.Errorf("RANDOM_TEXT = %s", ctx.Action(diag.RandomText))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "policy: [\n"},
		{"unknown category", "policy:\n  NOT_A_THING: warn\n"},
		{"unknown action", "policy:\n  RANDOM_TEXT: explode\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDBPathEnv(t *testing.T) {
	t.Setenv("SIMDECK_DB", "/env/runs.db")
	c := &Config{DB: "/file/runs.db"}
	if got := c.DBPath(""); got != "/env/runs.db" {
		t.Errorf("db = %q", got)
	}
	t.Setenv("SIMDECK_CONFIG", "/env/simdeck.yaml")
	if Path() != "/env/simdeck.yaml" {
		t.Errorf("path = %q", Path())
	}
}
