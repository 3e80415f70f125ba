package config

import (
	_ "embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/logger"
)

//go:embed defaults.toml
var defaultsTOML string

type defaults struct {
	Labels map[string]string `toml:"labels"`
	// order is the key order of the [labels] table as written
	order []string
}

var (
	builtin     defaults
	builtinOnce sync.Once
)

func loadDefaults() defaults {
	builtinOnce.Do(func() {
		md, err := toml.Decode(defaultsTOML, &builtin)
		if err != nil {
			// The embedded document is fixed at build time; a parse failure
			// leaves every label falling back to its key.
			logger.Error("failed to parse built-in defaults", "error", err)
			return
		}
		for _, k := range md.Keys() {
			if len(k) == 2 && k[0] == "labels" {
				builtin.order = append(builtin.order, k[1])
			}
		}
	})
	return builtin
}

func defaultLabel(key string) (string, bool) {
	v, ok := loadDefaults().Labels[key]
	return v, ok
}

// DefaultLabels returns the built-in label keys in declaration order.
func DefaultLabels() []string {
	d := loadDefaults()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// DefaultConfig returns a config populated with the default main directory
// and every built-in label.
func DefaultConfig() *Config {
	cfg := New()
	cfg.Set(constants.SectionPaths, constants.KeyMainDirectory, DefaultMainDirectory())
	d := loadDefaults()
	for _, key := range d.order {
		cfg.Set(constants.SectionLabels, key, d.Labels[key])
	}
	return cfg
}

// GetDefaultConfig returns DefaultConfig encoded as config file text.
func GetDefaultConfig() []byte {
	data, err := Encode(DefaultConfig())
	if err != nil {
		logger.Error("failed to encode default config", "error", err)
		return nil
	}
	return data
}
