package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

const (
	aliasSection        = "aliases"
	registrationSection = "registration"
)

type iniRegistration struct {
	Contract       string   `ini:"contract"`
	Implementation string   `ini:"implementation"`
	Name           string   `ini:"name"`
	Lifecycle      string   `ini:"lifecycle"`
	Arguments      []string `ini:"arguments" delim:","`
}

// LoadINI reads an INI registration file:
//
//	default_lifecycle = singleton
//
//	[aliases]
//	Shape = github.com/acme/shapes.Shape
//
//	[registration "circle"]
//	contract       = Shape
//	implementation = *github.com/acme/shapes.Circle
//	name           = circle
//	arguments      = 2.5
//
// Registration sections are applied in file order. Arguments are
// comma-separated; integers, floats and true/false are parsed, anything else
// stays a string.
func LoadINI(source any) (*Configuration, error) {
	file, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load ini configuration: %w", err)
	}

	cfg := &Configuration{
		DefaultLifecycle: file.Section(ini.DefaultSection).Key("default_lifecycle").String(),
	}

	if file.HasSection(aliasSection) {
		for _, key := range file.Section(aliasSection).Keys() {
			cfg.TypeAliases = append(cfg.TypeAliases, TypeAlias{Alias: key.Name(), Type: key.String()})
		}
	}

	for _, section := range file.Sections() {
		if !isRegistrationSection(section.Name()) {
			continue
		}

		var r iniRegistration
		if err := section.MapTo(&r); err != nil {
			return nil, fmt.Errorf("failed to map section %q: %w", section.Name(), err)
		}

		args := make([]any, 0, len(r.Arguments))
		for _, a := range r.Arguments {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, parseScalar(a))
			}
		}
		if len(args) == 0 {
			args = nil
		}

		cfg.Registrations = append(
			cfg.Registrations, Registration{
				Contract:       r.Contract,
				Implementation: r.Implementation,
				Name:           r.Name,
				Lifecycle:      r.Lifecycle,
				Arguments:      args,
			},
		)
	}

	return cfg, nil
}

func isRegistrationSection(name string) bool {
	return name == registrationSection || strings.HasPrefix(name, registrationSection+" ")
}

func parseScalar(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return strings.EqualFold(s, "true")
	}
	return strings.Trim(s, `"`)
}
