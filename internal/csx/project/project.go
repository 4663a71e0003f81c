// Package project loads the csx.yaml project file describing where
// component sources live and where translated macro files are written.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a template project.
type Config struct {
	// In is the directory holding component template sources.
	In string `yaml:"in"`
	// Out is the directory translated macro files are written to.
	Out string `yaml:"out"`
	// Extensions are the source file extensions to translate.
	Extensions []string `yaml:"extensions"`
	// Exclude lists directory names skipped while walking In.
	Exclude []string `yaml:"exclude"`
}

// Load reads the project file at path and fills in defaults. A missing
// file is not an error; it yields the default project layout.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return Config{}, err
	}

	if cfg.In == "" {
		cfg.In = filepath.Join("templates", "in")
	}
	if cfg.Out == "" {
		cfg.Out = filepath.Join("templates", "out")
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".html", ".md"}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.In == "" || c.Out == "" {
		return fmt.Errorf("in and out directories are required")
	}
	if filepath.Clean(c.In) == filepath.Clean(c.Out) {
		return fmt.Errorf("in and out directories must differ (both %q)", c.In)
	}
	return nil
}

// Translates reports whether name has one of the configured source
// extensions.
func (c Config) Translates(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory with this base name is skipped.
func (c Config) Excluded(name string) bool {
	for _, e := range c.Exclude {
		if e == name {
			return true
		}
	}
	return false
}
