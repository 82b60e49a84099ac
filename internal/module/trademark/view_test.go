package trademark

import (
	"slices"
	"testing"

	"github.com/simp-lee/tmsearch/internal/domain"
)

func TestBuildResultsView_ZeroState(t *testing.T) {
	for _, results := range [][]domain.TrademarkResult{nil, {}} {
		v := BuildResultsView(results, 42, "nike")
		if !v.Empty || len(v.Rows) != 0 || v.Header != "" {
			t.Errorf("BuildResultsView(%v) = %+v, want zero state", results, v)
		}
	}
}

func TestBuildResultsView_Rows(t *testing.T) {
	v := BuildResultsView(FallbackResults(), FallbackTotal, "Nike")

	if v.Empty {
		t.Fatal("Empty = true")
	}
	if want := `About 160 Trademarks found for "Nike"`; v.Header != want {
		t.Errorf("Header = %q, want %q", v.Header, want)
	}
	if !slices.Equal(v.Suggestions, []string{"Nike", "nike"}) {
		t.Errorf("Suggestions = %v", v.Suggestions)
	}
	if len(v.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(v.Rows))
	}

	row := v.Rows[1]
	if row.Index != 1 || row.RegistrationNumber != "73361064" || row.FilingDate != "22 Apr 1982" {
		t.Errorf("row = %+v", row)
	}
	if row.Live || row.ExpiryDate != "10 May 2033" {
		t.Errorf("row with expiry: Live = %v, ExpiryDate = %q", row.Live, row.ExpiryDate)
	}
	if !slices.Equal(row.ClassChips, []string{"Class 025"}) {
		t.Errorf("ClassChips = %v", row.ClassChips)
	}
}

func TestBuildResultsView_LiveWithoutExpiry(t *testing.T) {
	v := BuildResultsView([]domain.TrademarkResult{{Mark: "CHECK", Status: "Registered"}}, 1, "check")

	if !slices.Equal(v.Suggestions, []string{"check"}) {
		t.Errorf("Suggestions = %v, want a single entry", v.Suggestions)
	}
	row := v.Rows[0]
	if !row.Live || row.Status != "Registered" {
		t.Errorf("row = %+v, want live Registered", row)
	}
	if row.ClassChips == nil || len(row.ClassChips) != 0 {
		t.Errorf("ClassChips = %#v, want empty", row.ClassChips)
	}
}

func TestBuildResultsView_EmptyQueryHasNoSuggestions(t *testing.T) {
	v := BuildResultsView([]domain.TrademarkResult{{Mark: "X"}}, 1, "")
	if len(v.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want none", v.Suggestions)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(160); got != "160 results found" {
		t.Errorf("Summary(160) = %q", got)
	}
	if got := Summary(0); got != "No results found" {
		t.Errorf("Summary(0) = %q", got)
	}
}

func TestBuildPager(t *testing.T) {
	tests := []struct {
		name              string
		page, rows, total int
		want              Pager
	}{
		{"first page", 1, 10, 35, Pager{Page: 1, TotalPages: 4, HasNext: true, NextPage: 2}},
		{"middle", 2, 10, 35, Pager{Page: 2, TotalPages: 4, HasPrev: true, HasNext: true, PrevPage: 1, NextPage: 3}},
		{"last", 4, 10, 35, Pager{Page: 4, TotalPages: 4, HasPrev: true, PrevPage: 3}},
		{"past the end shows last", 9, 10, 35, Pager{Page: 4, TotalPages: 4, HasPrev: true, PrevPage: 3}},
		{"no results", 1, 10, 0, Pager{Page: 1, TotalPages: 1}},
		{"negative total", 1, 10, -5, Pager{Page: 1, TotalPages: 1}},
		{"zero rows uses default", 0, 0, 20, Pager{Page: 1, TotalPages: 2, HasNext: true, NextPage: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPager(tt.page, tt.rows, tt.total); got != tt.want {
				t.Errorf("BuildPager(%d, %d, %d) = %+v, want %+v", tt.page, tt.rows, tt.total, got, tt.want)
			}
		})
	}
}

func TestFilterOptions(t *testing.T) {
	status := StatusFilterOptions([]string{"Pending"})
	if len(status) != len(StatusOptions) {
		t.Fatalf("len = %d, want %d", len(status), len(StatusOptions))
	}
	for _, o := range status {
		if o.Kind != FilterStatus || o.Checked != (o.Value == "Pending") {
			t.Errorf("status option %+v", o)
		}
	}

	owners := OwnerFilterOptions(MatchOwners("inc"), []string{"Nike, Inc.", "Microsoft Corporation"})
	var checked []string
	for _, o := range owners {
		if o.Checked {
			checked = append(checked, o.Value)
		}
	}
	if len(owners) != 5 || !slices.Equal(checked, []string{"Nike, Inc."}) {
		t.Errorf("owners = %+v", owners)
	}
}
