package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
	runs       int
}

var categoryOrder = []string{
	"Provide_Simple",
	"Provide_Chain",
	"Invoke_Singleton",
	"Invoke_Transient",
	"Invoke_Chain",
	"Named_10",
	"NamedResolve_10",
}

var titles = map[string]string{
	"Provide_Simple":   "Registration and build (single instance)",
	"Provide_Chain":    "Registration and build (dependency chain)",
	"Invoke_Singleton": "Resolution (singleton shape)",
	"Invoke_Transient": "Resolution (transient shape)",
	"Invoke_Chain":     "Resolution (renderer chain)",
	"Named_10":         "Named registrations (10 shapes)",
	"NamedResolve_10":  "Named resolution (1 of 10 shapes)",
}

var frameworkColors = map[string]text.Colors{
	"Lattice":          {text.FgGreen},
	"LatticeFactory":   {text.FgHiGreen},
	"LatticeTransient": {text.FgCyan},
	"Do":               {text.FgYellow},
	"Dig":              {text.FgMagenta},
	"Fx":               {text.FgBlue},
}

var benchLine = regexp.MustCompile(`^Benchmark(\w+)-\d+\s+\d+\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)

func main() {
	benchDir := ".."
	exportJSON := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			exportJSON = true
			continue
		}
		benchDir = arg
	}

	fmt.Println(text.Bold.Sprint("Lattice benchmark suite"))
	fmt.Println(text.Faint.Sprint("Running benchmarks..."))

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark failed: %s\n", exitErr.Stderr)
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, category := range orderedCategories(grouped) {
		printCategory(category, grouped[category])
	}
	printSummary(grouped)

	if exportJSON {
		if err := writeJSON("benchmark_results.json", results); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(text.Faint.Sprint("Results exported to benchmark_results.json"))
	}
}

// parseResults averages repeated runs of the same benchmark.
func parseResults(output []byte) []BenchmarkResult {
	byName := make(map[string]*BenchmarkResult)
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		m := benchLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		ns, _ := strconv.ParseFloat(m[2], 64)
		bytesOp, _ := strconv.ParseInt(m[3], 10, 64)
		allocs, _ := strconv.ParseInt(m[4], 10, 64)

		r, ok := byName[m[1]]
		if !ok {
			category, framework := splitName(m[1])
			r = &BenchmarkResult{Name: m[1], Category: category, Framework: framework}
			byName[m[1]] = r
			names = append(names, m[1])
		}
		r.NsPerOp += ns
		r.BytesPerOp += bytesOp
		r.AllocsOp += allocs
		r.runs++
	}

	results := make([]BenchmarkResult, 0, len(names))
	for _, name := range names {
		r := byName[name]
		n := int64(r.runs)
		r.NsPerOp /= float64(n)
		r.BytesPerOp /= n
		r.AllocsOp /= n
		results = append(results, *r)
	}
	return results
}

// splitName turns "Invoke_Chain_Dig" into ("Invoke_Chain", "Dig").
func splitName(name string) (category, framework string) {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return name, name
	}
	return name[:i], name[i+1:]
}

func groupByCategory(results []BenchmarkResult) map[string][]BenchmarkResult {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		groups[r.Category] = append(groups[r.Category], r)
	}
	for _, rs := range groups {
		slices.SortFunc(
			rs, func(a, b BenchmarkResult) int {
				switch {
				case a.NsPerOp < b.NsPerOp:
					return -1
				case a.NsPerOp > b.NsPerOp:
					return 1
				}
				return 0
			},
		)
	}
	return groups
}

func orderedCategories(groups map[string][]BenchmarkResult) []string {
	var ordered []string
	for _, c := range categoryOrder {
		if _, ok := groups[c]; ok {
			ordered = append(ordered, c)
		}
	}

	var rest []string
	for c := range groups {
		if !slices.Contains(categoryOrder, c) {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)
	return append(ordered, rest...)
}

func printCategory(category string, results []BenchmarkResult) {
	title, ok := titles[category]
	if !ok {
		title = strings.ReplaceAll(category, "_", " ")
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Framework", "Time/op", "B/op", "Allocs/op", "Relative"})

	fastest := results[0].NsPerOp
	for i, r := range results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}
		name := r.Framework
		if colors, ok := frameworkColors[r.Framework]; ok {
			name = colors.Sprint(r.Framework)
		}
		t.AppendRow(table.Row{name, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsOp, relative})
	}

	t.SetColumnConfigs(
		[]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		},
	)
	t.Render()
	fmt.Println()
}

func printSummary(groups map[string][]BenchmarkResult) {
	wins := make(map[string]int)
	for _, rs := range groups {
		if len(rs) > 0 {
			wins[rs[0].Framework]++
		}
	}

	frameworks := make([]string, 0, len(wins))
	for name := range wins {
		frameworks = append(frameworks, name)
	}
	slices.SortFunc(
		frameworks, func(a, b string) int {
			if wins[a] != wins[b] {
				return wins[b] - wins[a]
			}
			return strings.Compare(a, b)
		},
	)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Framework", "Wins"})
	for _, name := range frameworks {
		t.AppendRow(table.Row{name, fmt.Sprintf("%d/%d", wins[name], len(groups))})
	}
	t.AppendFooter(
		table.Row{"Compared", "lattice, samber/do, uber/dig, uber/fx"},
	)
	t.Render()
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func writeJSON(path string, results []BenchmarkResult) error {
	data, err := json.MarshalIndent(
		struct {
			Benchmarks []BenchmarkResult `json:"benchmarks"`
		}{Benchmarks: results}, "", "  ",
	)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
