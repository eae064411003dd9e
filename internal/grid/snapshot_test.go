package grid

import (
	"strings"
	"testing"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Columns: []string{"code", "name", "qty"},
		Rows: []Row{
			{"code": String("A1"), "name": String("Widget"), "qty": Number(10)},
			{"code": String("A2"), "name": String("Gadget"), "qty": Number(5)},
			{"code": String("A3"), "name": String("Sprocket"), "qty": Null()},
			{"code": String("B1"), "name": String("widget mini"), "qty": Number(2)},
		},
	}
}

func TestSnapshot_Filter(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name    string
		keyword string
		want    int
	}{
		{"empty keyword keeps all", "", 4},
		{"case-insensitive match", "WIDGET", 2},
		{"matches any column", "sprocket", 1},
		{"numeric cells are searched", "10", 1},
		{"no matches", "zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(tt.keyword)
			if got.Len() != tt.want {
				t.Errorf("Filter(%q) returned %d rows, want %d", tt.keyword, got.Len(), tt.want)
			}
			if len(got.Columns) != len(s.Columns) {
				t.Errorf("Filter(%q) dropped columns: %v", tt.keyword, got.Columns)
			}
		})
	}
}

func TestSnapshot_FilterPreservesOrder(t *testing.T) {
	s := testSnapshot()
	got := s.Filter("widget")
	if got.Len() != 2 {
		t.Fatalf("Filter() returned %d rows, want 2", got.Len())
	}
	if got.Rows[0].Cell("code").Display() != "A1" || got.Rows[1].Cell("code").Display() != "B1" {
		t.Errorf("Filter() reordered rows: %s, %s",
			got.Rows[0].Cell("code").Display(), got.Rows[1].Cell("code").Display())
	}
}

func TestSnapshot_TotalPages(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name     string
		rows     int
		pageSize int
		want     int
	}{
		{"exact fit", 4, 2, 2},
		{"remainder adds page", 4, 3, 2},
		{"single page", 4, 10, 1},
		{"empty snapshot", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Snapshot{Columns: s.Columns, Rows: s.Rows[:tt.rows]}
			if got := sub.TotalPages(tt.pageSize); got != tt.want {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestSnapshot_Page(t *testing.T) {
	s := testSnapshot()

	first := s.Page(0, 3)
	if first.Len() != 3 {
		t.Errorf("Page(0, 3) returned %d rows, want 3", first.Len())
	}
	if first.Rows[0].Cell("code").Display() != "A1" {
		t.Errorf("Page(0, 3) first row = %s, want A1", first.Rows[0].Cell("code").Display())
	}

	second := s.Page(1, 3)
	if second.Len() != 1 {
		t.Errorf("Page(1, 3) returned %d rows, want 1", second.Len())
	}
	if second.Rows[0].Cell("code").Display() != "B1" {
		t.Errorf("Page(1, 3) first row = %s, want B1", second.Rows[0].Cell("code").Display())
	}

	beyond := s.Page(5, 3)
	if beyond.Len() != 0 {
		t.Errorf("Page(5, 3) returned %d rows, want 0", beyond.Len())
	}
}

func TestSnapshot_FilterNoMatchHasZeroPages(t *testing.T) {
	s := testSnapshot().Filter("no-such-keyword")
	if s.Len() != 0 {
		t.Fatalf("filtered snapshot has %d rows, want 0", s.Len())
	}
	if got := s.TotalPages(3); got != 0 {
		t.Errorf("TotalPages(3) = %d, want 0", got)
	}
	if page := s.Page(0, 3); page.Len() != 0 {
		t.Errorf("Page(0, 3) returned %d rows, want 0", page.Len())
	}
}

func TestSnapshot_WriteCSV(t *testing.T) {
	s := Snapshot{
		Columns: []string{"code", "name", "qty"},
		Rows: []Row{
			{"code": String("A1"), "name": String("Widget"), "qty": Number(10)},
			{"code": String("A2"), "name": String("with, comma"), "qty": Null()},
		},
	}

	var b strings.Builder
	if err := s.WriteCSV(&b); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "code,name,qty\n" +
		"A1,Widget,10\n" +
		"A2,\"with, comma\",\n"
	if b.String() != want {
		t.Errorf("WriteCSV() =\n%q\nwant\n%q", b.String(), want)
	}
}

func TestSnapshot_WriteCSV_HeaderOnly(t *testing.T) {
	s := Snapshot{Columns: []string{"code", "name"}}

	var b strings.Builder
	if err := s.WriteCSV(&b); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if b.String() != "code,name\n" {
		t.Errorf("WriteCSV() = %q, want header only", b.String())
	}
}
