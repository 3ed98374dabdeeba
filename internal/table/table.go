// Package table maps header-indexed spreadsheet matrices to named columns.
//
// Tables arrive as loosely-typed value matrices (as returned by the Sheets
// API or the web app endpoint): row 0 names the columns, rows 1..N hold
// scalar cells. Lookups degrade gracefully: a missing column yields the
// absent sentinel and downstream accessors return empty values instead of
// indexing out of bounds.
package table

import (
	"fmt"
	"math"
	"strings"
)

// Absent is the position recorded for a column whose header is missing.
const Absent = -1

type (
	// Table is a raw header+rows matrix. The zero value is an empty table.
	Table [][]any

	// Column names a canonical column plus any header spellings that
	// deployments use for it. The canonical name is tried first, then
	// aliases in order.
	Column struct {
		Name    string
		Aliases []string
	}

	// Index maps canonical column names to zero-based row positions.
	Index map[string]int
)

// Empty reports whether the table has no data rows. A header alone does
// not count as data.
func (t Table) Empty() bool {
	return len(t) < 2
}

// Header returns the header row, or nil for a headerless table.
func (t Table) Header() []any {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Rows returns the data rows (everything after the header).
func (t Table) Rows() [][]any {
	if t.Empty() {
		return nil
	}
	return t[1:]
}

// Col is shorthand for a Column without aliases.
func Col(name string) Column {
	return Column{Name: name}
}

// NewIndex resolves each column against the header by exact, case-sensitive
// string match; the first occurrence wins when headers repeat. Unresolved
// columns map to Absent rather than erroring.
func NewIndex(header []any, columns []Column) Index {
	return buildIndex(headerStrings(header, false), columns)
}

// NewTrimmedIndex behaves like NewIndex but stringifies and trims header
// cells first, tolerating incidental whitespace in source headers.
func NewTrimmedIndex(header []any, columns []Column) Index {
	return buildIndex(headerStrings(header, true), columns)
}

func buildIndex(header []string, columns []Column) Index {
	idx := make(Index, len(columns))
	for _, c := range columns {
		pos := indexOf(header, c.Name)
		for _, alias := range c.Aliases {
			if pos != Absent {
				break
			}
			pos = indexOf(header, alias)
		}
		idx[c.Name] = pos
	}
	return idx
}

func headerStrings(header []any, trim bool) []string {
	out := make([]string, len(header))
	for i, v := range header {
		s := cellString(v)
		if trim {
			s = strings.TrimSpace(s)
		}
		out[i] = s
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if v == target {
			return i
		}
	}
	return Absent
}

// Pos returns the resolved position for name, or Absent when the column
// was not requested at index-build time or is missing from the header.
func (ix Index) Pos(name string) int {
	pos, ok := ix[name]
	if !ok {
		return Absent
	}
	return pos
}

// Cell returns the raw cell for the named column, or nil when the column
// is absent or the row is too short.
func (ix Index) Cell(row []any, name string) any {
	pos := ix.Pos(name)
	if pos == Absent || pos >= len(row) {
		return nil
	}
	return row[pos]
}

// Text stringifies the named cell; absent cells and nils become "".
func (ix Index) Text(row []any, name string) string {
	return cellString(ix.Cell(row, name))
}

// Label returns the named cell as display text. Free-text columns treat a
// blank-ish cell (nil, empty, numeric zero, false) as empty rather than
// rendering "0" the way Text would.
func (ix Index) Label(row []any, name string) string {
	v := ix.Cell(row, name)
	switch c := v.(type) {
	case nil:
		return ""
	case bool:
		if !c {
			return ""
		}
	case float64:
		if c == 0 || math.IsNaN(c) {
			return ""
		}
	case int:
		if c == 0 {
			return ""
		}
	case int64:
		if c == 0 {
			return ""
		}
	}
	return cellString(v)
}

// String renders a scalar cell the way identity comparisons expect:
// integral JSON numbers lose their ".0" so 101 and "101" compare equal.
func String(v any) string {
	return cellString(v)
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; render integral ids without
		// a trailing ".0" so they compare equal to their string form.
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(v)
	}
}
