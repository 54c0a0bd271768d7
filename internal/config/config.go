// Package config loads the optional INI configuration file.
package config

import (
	"fmt"
	"strings"

	"github.com/go-ini/ini"

	"github.com/Yasin57/doublon/internal/doublon"
)

// Config holds the tunables read from the configuration file.
type Config struct {
	// ProbeWidth is the fingerprint width in bytes.
	ProbeWidth int
	// Categories maps extra extensions (lowercase, with dot) onto the
	// fixed categories.
	Categories map[string]doublon.Category
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProbeWidth: doublon.DefaultProbeWidth,
		Categories: map[string]doublon.Category{},
	}
}

// Load reads an INI file of the form:
//
//	[probe]
//	width = 5
//
//	[categories]
//	.xyz = Image
//
// An empty path yields the defaults. A named file that is missing or
// malformed is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}

	probe := file.Section("probe")
	if key, err := probe.GetKey("width"); err == nil {
		width, err := key.Int()
		if err != nil {
			return Config{}, fmt.Errorf("config %q: probe width: %w", path, err)
		}

		if width <= 0 {
			return Config{}, fmt.Errorf("config %q: probe width must be positive, got %d", path, width)
		}

		cfg.ProbeWidth = width
	}

	for _, key := range file.Section("categories").Keys() {
		category, ok := doublon.ParseCategory(key.Value())
		if !ok {
			return Config{}, fmt.Errorf("config %q: unknown category %q for extension %q", path, key.Value(), key.Name())
		}

		ext := strings.ToLower(key.Name())
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		cfg.Categories[ext] = category
	}

	return cfg, nil
}
