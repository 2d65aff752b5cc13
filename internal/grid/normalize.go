package grid

import (
	"fmt"
	"sort"
)

// Grid is the two-dimensional display structure handed to the spreadsheet
// host. Every cell is a display-ready string.
type Grid [][]string

// Format is the display-format preference for normalized responses.
type Format int

const (
	FormatAuto Format = iota
	FormatTable
	FormatKeyValue
)

func (f Format) String() string {
	switch f {
	case FormatTable:
		return "table"
	case FormatKeyValue:
		return "key_value"
	default:
		return "auto"
	}
}

// ParseFormat maps a preference name to its Format. Unknown names report ok
// as false and fall back to auto.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "auto", "":
		return FormatAuto, true
	case "table":
		return FormatTable, true
	case "key_value":
		return FormatKeyValue, true
	default:
		return FormatAuto, false
	}
}

const noDataMessage = "No data received"

// ErrorGrid wraps a failure message into the single-cell error layout.
func ErrorGrid(message string) Grid {
	return Grid{{"Error: " + message}}
}

// IsNoData reports whether a grid is the canonical empty-response grid.
func IsNoData(g Grid) bool {
	return len(g) == 1 && len(g[0]) == 1 && g[0][0] == noDataMessage
}

// schema captures the known response pattern of an endpoint: a fixed layout
// plus optional title and sort hints.
type schema struct {
	format     Format
	fixed      bool
	title      string
	titleField string
	sortBy     string
}

var endpointSchemas = map[string]schema{
	"quotes":       {format: FormatKeyValue, fixed: true, titleField: "symbol"},
	"funds":        {format: FormatKeyValue, fixed: true, title: "Account Funds"},
	"orderbook":    {format: FormatTable, fixed: true, sortBy: "timestamp"},
	"tradebook":    {format: FormatTable, fixed: true, sortBy: "timestamp"},
	"positionbook": {format: FormatTable, fixed: true},
	"holdings":     {format: FormatTable, fixed: true},
}

// Normalize renders an arbitrary decoded value into a grid under the given
// format preference, with no endpoint schema applied.
func Normalize(raw any, pref Format) Grid {
	return render(Classify(raw), pref, schema{}, "")
}

// ProcessResponse renders a full API response envelope for one endpoint.
// An error key in the envelope yields the error layout; otherwise the data
// payload (or the envelope itself) is normalized using the endpoint schema
// and the caller's format preference.
func ProcessResponse(resource string, resp any, pref Format, customTitle string) Grid {
	if om, ok := resp.(*OrderedMap); ok && om != nil {
		if errVal, found := om.Get("error"); found {
			return ErrorGrid(stringify(errVal))
		}
		if data, found := om.Get("data"); found {
			resp = data
		}
	}

	sc := endpointSchemas[resource]
	if customTitle != "" {
		sc.title = customTitle
		sc.titleField = ""
	}

	effective := pref
	if sc.fixed {
		effective = sc.format
	}

	return render(Classify(resp), effective, sc, resource)
}

func render(value Value, pref Format, sc schema, resource string) Grid {
	switch value.Kind {
	case KindEmpty:
		return Grid{{noDataMessage}}

	case KindScalar:
		return Grid{{stringify(value.Scalar)}}

	case KindMapping:
		if pref == FormatTable {
			// force a one-row table
			return tableLayout([]*OrderedMap{value.Mapping}, sc)
		}
		return keyValueLayout(value.Mapping, sc, resource)

	case KindSequence:
		if pref == FormatKeyValue {
			return flattenSequence(value.Sequence)
		}
		g := Grid{{"Items"}}
		for _, item := range value.Sequence {
			g = append(g, []string{stringify(item)})
		}
		return g

	case KindSequenceOfMapping:
		if pref == FormatKeyValue {
			if len(value.Rows) == 1 {
				// single-item list: unwrap instead of index-qualifying
				return keyValueLayout(value.Rows[0], sc, resource)
			}
			return flattenRows(value.Rows)
		}
		return tableLayout(value.Rows, sc)

	default:
		return Grid{{noDataMessage}}
	}
}

// keyValueLayout renders a mapping as a two-column grid with a title row.
func keyValueLayout(m *OrderedMap, sc schema, resource string) Grid {
	title := sc.title
	if title == "" && sc.titleField != "" {
		if v, ok := m.Get(sc.titleField); ok {
			title = stringify(v)
			if exch, ok := m.Get("exchange"); ok {
				title = fmt.Sprintf("%s (%s)", title, stringify(exch))
			}
		}
	}

	var g Grid
	if title != "" {
		g = Grid{{title, "Value"}}
	} else {
		g = Grid{{"Field", "Value"}}
	}

	for _, field := range sortFieldsByPriority(m.Keys()) {
		v, _ := m.Get(field)
		g = append(g, []string{LabelFor(field), FormatValue(field, v)})
	}
	return g
}

// tableLayout renders a sequence of mappings as a header row plus one data
// row per entry. Columns are the prioritized, de-duplicated union of keys
// across all entries.
func tableLayout(rows []*OrderedMap, sc schema) Grid {
	var union []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				union = append(union, k)
			}
		}
	}
	ordered := sortFieldsByPriority(union)

	header := make([]string, len(ordered))
	for i, field := range ordered {
		header[i] = LabelFor(field)
	}

	g := Grid{header}
	for _, row := range rows {
		cells := make([]string, len(ordered))
		for i, field := range ordered {
			if v, ok := row.Get(field); ok {
				cells[i] = FormatValue(field, v)
			}
		}
		g = append(g, cells)
	}

	if sc.sortBy != "" {
		if col := indexOf(ordered, sc.sortBy); col >= 0 {
			data := g[1:]
			sort.SliceStable(data, func(i, j int) bool {
				return data[i][col] > data[j][col]
			})
		}
	}
	return g
}

// flattenRows renders a sequence of mappings in the two-column layout by
// qualifying every field with its entry index.
func flattenRows(rows []*OrderedMap) Grid {
	g := Grid{{"Field", "Value"}}
	for i, row := range rows {
		for _, field := range sortFieldsByPriority(row.Keys()) {
			v, _ := row.Get(field)
			key := fmt.Sprintf("[%d] %s", i, LabelFor(field))
			g = append(g, []string{key, FormatValue(field, v)})
		}
	}
	return g
}

// flattenSequence renders a sequence of scalars in the two-column layout.
func flattenSequence(seq []any) Grid {
	g := Grid{{"Field", "Value"}}
	for i, item := range seq {
		g = append(g, []string{fmt.Sprintf("[%d]", i), stringify(item)})
	}
	return g
}

func indexOf(fields []string, target string) int {
	for i, f := range fields {
		if f == target {
			return i
		}
	}
	return -1
}
