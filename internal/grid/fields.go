package grid

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed fields.yml
var fieldTableYAML []byte

// fieldTable is the data-driven display table: labels, priority order and
// category pins. Kept in YAML so ambiguous field names are assigned
// explicitly instead of being guessed by the name heuristics.
type fieldTable struct {
	Priority   []string            `yaml:"priority"`
	Labels     map[string]string   `yaml:"labels"`
	Categories map[string][]string `yaml:"categories"`
}

var (
	fields        fieldTable
	priorityIndex map[string]int
	categoryPins  map[string]Category
)

func init() {
	if err := yaml.Unmarshal(fieldTableYAML, &fields); err != nil {
		panic(fmt.Sprintf("grid: invalid embedded field table: %v", err))
	}

	priorityIndex = make(map[string]int, len(fields.Priority))
	for i, name := range fields.Priority {
		priorityIndex[name] = i
	}

	categoryPins = make(map[string]Category)
	for name, members := range fields.Categories {
		cat, ok := categoryNames[name]
		if !ok {
			panic(fmt.Sprintf("grid: unknown category %q in field table", name))
		}
		for _, field := range members {
			categoryPins[field] = cat
		}
	}
}

// LabelFor returns the display label for a raw field identifier. Unmapped
// identifiers are humanized: underscores become spaces, words title-cased.
func LabelFor(field string) string {
	if label, ok := fields.Labels[field]; ok {
		return label
	}
	return humanize(field)
}

func humanize(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// sortFieldsByPriority returns priority fields first in their fixed order,
// then the remaining fields in the order they were first seen, de-duplicated.
func sortFieldsByPriority(names []string) []string {
	seen := make(map[string]bool, len(names))
	inInput := make(map[string]bool, len(names))
	for _, n := range names {
		inInput[n] = true
	}

	out := make([]string, 0, len(names))
	for _, p := range fields.Priority {
		if inInput[p] && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	for _, n := range names {
		if !seen[n] {
			out = append(out, n)
			seen[n] = true
		}
	}
	return out
}
