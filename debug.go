package lattice

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

type GraphInfo struct {
	Registrations []RegistrationInfo
}

type RegistrationInfo struct {
	Key          string
	Lifetime     string
	Activator    string
	Dependencies []string
	Dependents   []string
}

// Graph describes the registrations and the constructor dependencies the
// container would use, sorted by key.
func (c *Container) Graph() GraphInfo {
	g, _ := c.dependencyGraph()

	infos := make([]RegistrationInfo, 0, len(c.entries))
	for _, e := range c.entries {
		activator := "constructor"
		if _, ok := e.activator.(*factoryActivator); ok {
			activator = "factory"
		}

		infos = append(
			infos, RegistrationInfo{
				Key:          e.id,
				Lifetime:     lifetimeOf(e.strategy).String(),
				Activator:    activator,
				Dependencies: g.GetDependencies(e.id),
				Dependents:   g.GetDependents(e.id),
			},
		)
	}

	sort.SliceStable(
		infos, func(i, j int) bool {
			return infos[i].Key < infos[j].Key
		},
	)
	return GraphInfo{Registrations: infos}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Registrations) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, r := range info.Registrations {
		if len(r.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "[%s] %s\n", r.Lifetime, r.Key)
		} else {
			_, _ = fmt.Fprintf(w, "[%s] %s ← %s\n", r.Lifetime, r.Key, strings.Join(r.Dependencies, ", "))
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, r := range info.Registrations {
		style := ""
		if r.Activator == "factory" {
			style = ", style=dashed"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", r.Key, escapeLabel(r.Key), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, r := range info.Registrations {
		for _, dep := range r.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", r.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// escapeLabel strips pointer stars and package paths for compact labels.
func escapeLabel(s string) string {
	parts := strings.Split(s, " -> ")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "*", "")
		if idx := strings.LastIndex(p, "/"); idx != -1 {
			p = p[idx+1:]
		}
		parts[i] = p
	}
	return strings.Join(parts, " -> ")
}
