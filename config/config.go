// Package config loads container registrations from YAML or INI files and
// turns them into a lattice.Module.
//
// Go cannot look types up by name, so every type a file mentions must be
// added to a Catalog first. Files may also declare aliases for long type
// names.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Configuration mirrors a registration file.
type Configuration struct {
	DefaultLifecycle string         `yaml:"defaultLifecycle"`
	TypeAliases      []TypeAlias    `yaml:"typeAliases"`
	Registrations    []Registration `yaml:"registrations"`
}

type TypeAlias struct {
	Alias string `yaml:"alias"`
	Type  string `yaml:"type"`
}

// Registration is one (contract, implementation, name, lifecycle,
// arguments) tuple. An empty Lifecycle falls back to the default.
type Registration struct {
	Contract       string `yaml:"contract"`
	Implementation string `yaml:"implementation"`
	Name           string `yaml:"name"`
	Lifecycle      string `yaml:"lifecycle"`
	Arguments      []any  `yaml:"arguments"`
}

// Load reads path with the loader matching its extension.
func Load(path string) (*Configuration, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".ini":
		return LoadINI(path)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}
}

func (c *Configuration) aliases() map[string]string {
	aliases := make(map[string]string, len(c.TypeAliases))
	for _, a := range c.TypeAliases {
		aliases[a.Alias] = a.Type
	}
	return aliases
}
