package scope

import (
	"fmt"
	"strings"
)

// Kind names the built-in reuse policies.
type Kind int

const (
	Transient Kind = iota
	Singleton
	Scoped
	Custom
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Parse maps a lifecycle name, as written in configuration files, to a Kind.
// Matching ignores case and surrounding whitespace. The empty string parses
// as Transient.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	case "scoped", "request", "perscope":
		return Scoped, nil
	default:
		return Transient, fmt.Errorf("unknown lifecycle %q", s)
	}
}
