// Package config loads simdeck.yaml: the database path and the parse policy.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/simdeck/internal/diag"
)

// Config is the contents of simdeck.yaml.
//
//	db: /data/runs.db
//	strict: false
//	policy:
//	  UNKNOWN_KEYWORD: throw
//	  MISSING_INCLUDE: warn
//	watch:
//	  debounce: 300ms
type Config struct {
	DB     string            `yaml:"db"`
	Strict bool              `yaml:"strict"`
	Policy map[string]string `yaml:"policy"`
	Watch  Watch             `yaml:"watch"`
}

// Watch configures the watch command.
type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Dir returns the per-user directory, ~/.simdeck.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".simdeck")
}

// Path returns the config file to read: $SIMDECK_CONFIG or
// ~/.simdeck/simdeck.yaml.
func Path() string {
	if env := os.Getenv("SIMDECK_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(Dir(), "simdeck.yaml")
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := c.ParseContext(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// DBPath resolves the database: flag, then $SIMDECK_DB, then the config
// file, then ~/.simdeck/runs.db.
func (c *Config) DBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("SIMDECK_DB"); env != "" {
		return env
	}
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(Dir(), "runs.db")
}

// ParseContext builds the parse policy: strict escalates everything, then
// the policy map overrides single categories.
func (c *Config) ParseContext() (*diag.ParseContext, error) {
	ctx := diag.NewParseContext()
	if c.Strict {
		ctx = diag.Strict()
	}
	for name, action := range c.Policy {
		cat := diag.Category(strings.ToUpper(name))
		if !knownCategory(cat) {
			return nil, fmt.Errorf("unknown policy category %q", name)
		}
		a, err := diag.ParseAction(action)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", name, err)
		}
		ctx.Update(cat, a)
	}
	return ctx, nil
}

// Debounce returns the watch debounce, defaulted.
func (c *Config) Debounce() time.Duration {
	if c.Watch.Debounce <= 0 {
		return DefaultDebounce
	}
	return c.Watch.Debounce
}

func knownCategory(cat diag.Category) bool {
	for _, c := range diag.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
