package table

import (
	"math"
	"testing"
)

func TestTableEmpty(t *testing.T) {
	cases := []struct {
		name  string
		table Table
		empty bool
	}{
		{"nil table", nil, true},
		{"header only", Table{{"a", "b"}}, true},
		{"header plus row", Table{{"a"}, {"1"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.table.Empty(); got != tc.empty {
				t.Errorf("Empty() = %v, want %v", got, tc.empty)
			}
		})
	}
}

func TestTableRows(t *testing.T) {
	tbl := Table{{"a"}, {"1"}, {"2"}}
	if got := len(tbl.Rows()); got != 2 {
		t.Fatalf("expected 2 data rows, got %d", got)
	}
	if rows := (Table{{"a"}}).Rows(); rows != nil {
		t.Errorf("header-only table should have nil rows, got %v", rows)
	}
}

func TestNewIndex(t *testing.T) {
	header := []any{"referal_id", "referer_id", "referal_nickname"}
	idx := NewIndex(header, []Column{
		Col("referal_id"),
		Col("referer_id"),
		Col("reg_date"),
	})

	if got := idx.Pos("referal_id"); got != 0 {
		t.Errorf("referal_id position = %d, want 0", got)
	}
	if got := idx.Pos("referer_id"); got != 1 {
		t.Errorf("referer_id position = %d, want 1", got)
	}
	if got := idx.Pos("reg_date"); got != Absent {
		t.Errorf("missing column position = %d, want Absent", got)
	}
	if got := idx.Pos("never_requested"); got != Absent {
		t.Errorf("unrequested column position = %d, want Absent", got)
	}
}

func TestNewIndexFirstMatchWins(t *testing.T) {
	header := []any{"id", "name", "id"}
	idx := NewIndex(header, []Column{Col("id")})
	if got := idx.Pos("id"); got != 0 {
		t.Errorf("duplicate header should resolve to first occurrence, got %d", got)
	}
}

func TestNewIndexCaseSensitive(t *testing.T) {
	idx := NewIndex([]any{"Referal_ID"}, []Column{Col("referal_id")})
	if got := idx.Pos("referal_id"); got != Absent {
		t.Errorf("lookup must be case-sensitive, got position %d", got)
	}
}

func TestNewIndexAliases(t *testing.T) {
	// The older deployment names the totals column "totalReferals".
	idx := NewIndex([]any{"referal_id", "totalReferals"}, []Column{
		{Name: "total_referals", Aliases: []string{"totalReferals"}},
	})
	if got := idx.Pos("total_referals"); got != 1 {
		t.Errorf("alias should resolve, got position %d", got)
	}

	// Canonical name wins over an alias when both exist.
	idx = NewIndex([]any{"totalReferals", "total_referals"}, []Column{
		{Name: "total_referals", Aliases: []string{"totalReferals"}},
	})
	if got := idx.Pos("total_referals"); got != 1 {
		t.Errorf("canonical header should win over alias, got position %d", got)
	}
}

func TestNewTrimmedIndex(t *testing.T) {
	header := []any{" referal_id ", "status\t"}
	if got := NewIndex(header, []Column{Col("referal_id")}).Pos("referal_id"); got != Absent {
		t.Errorf("untrimmed index should not match padded header, got %d", got)
	}
	idx := NewTrimmedIndex(header, []Column{Col("referal_id"), Col("status")})
	if got := idx.Pos("referal_id"); got != 0 {
		t.Errorf("trimmed header should match, got position %d", got)
	}
	if got := idx.Pos("status"); got != 1 {
		t.Errorf("trimmed header should match, got position %d", got)
	}
}

func TestIndexCell(t *testing.T) {
	idx := NewIndex([]any{"a", "b", "c"}, []Column{Col("a"), Col("c"), Col("z")})
	row := []any{"1", "2"} // short row: no cell under "c"

	if got := idx.Cell(row, "a"); got != "1" {
		t.Errorf("Cell(a) = %v, want 1", got)
	}
	if got := idx.Cell(row, "c"); got != nil {
		t.Errorf("short row should yield nil, got %v", got)
	}
	if got := idx.Cell(row, "z"); got != nil {
		t.Errorf("absent column should yield nil, got %v", got)
	}
	if got := idx.Text(row, "z"); got != "" {
		t.Errorf("absent column text should be empty, got %q", got)
	}
}

func TestIndexLabel(t *testing.T) {
	idx := NewIndex([]any{"name"}, []Column{Col("name")})
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"", ""},
		{float64(0), ""},
		{math.NaN(), ""},
		{0, ""},
		{int64(0), ""},
		{false, ""},
		{"mario", "mario"},
		{float64(7), "7"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := idx.Label([]any{tc.in}, "name"); got != tc.want {
			t.Errorf("Label(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(101), "101"},
		{float64(1.5), "1.5"},
		{42, "42"},
	}
	for _, tc := range cases {
		if got := String(tc.in); got != tc.want {
			t.Errorf("String(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
