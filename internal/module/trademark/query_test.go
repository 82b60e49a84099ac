package trademark

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/simp-lee/tmsearch/internal/domain"
)

func TestDefaultSearchParams(t *testing.T) {
	p := DefaultSearchParams("check")

	if p.InputQuery != "check" || p.InputQueryType != "" {
		t.Errorf("query fields = %q/%q", p.InputQuery, p.InputQueryType)
	}
	if p.SortBy != "default" || p.SortOrder != "desc" || p.Rows != 10 || p.Page != 1 {
		t.Errorf("scalars = %+v", p)
	}
	if p.ExactMatch || p.DateQuery {
		t.Error("flags should default to false")
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"status", "owners", "attorneys", "law_firms", "mark_description_description", "classes", "states", "counties"} {
		if !strings.Contains(string(b), `"`+field+`":[]`) {
			t.Errorf("%s not encoded as []: %s", field, b)
		}
	}
}

func TestWithQuery_ResetsPage(t *testing.T) {
	p := WithPage(DefaultSearchParams("check"), 4)

	for _, text := range []string{"nike", "", "  ODD\tquery  "} {
		got := WithQuery(p, text)
		if got.InputQuery != text {
			t.Errorf("InputQuery = %q, want %q passed through", got.InputQuery, text)
		}
		if got.Page != 1 {
			t.Errorf("Page = %d after query change, want 1", got.Page)
		}
	}
	if p.Page != 4 {
		t.Errorf("input mutated: Page = %d", p.Page)
	}
}

func TestWithFilters_ResetsPageAndCopies(t *testing.T) {
	p := WithPage(DefaultSearchParams("check"), 3)
	status := []string{"Registered"}
	owners := []string{"Nike, Inc.", "Apple Inc."}

	got := WithFilters(p, status, owners)
	if got.Page != 1 {
		t.Errorf("Page = %d, want 1", got.Page)
	}
	if !reflect.DeepEqual(got.Status, status) || !reflect.DeepEqual(got.Owners, owners) {
		t.Errorf("sets = %v / %v", got.Status, got.Owners)
	}

	status[0] = "Pending"
	if got.Status[0] != "Registered" {
		t.Error("WithFilters aliases the caller's slice")
	}
	if len(p.Status) != 0 {
		t.Error("input params mutated")
	}

	cleared := WithFilters(got, nil, nil)
	if cleared.Status == nil || cleared.Owners == nil || len(cleared.Status)+len(cleared.Owners) != 0 {
		t.Errorf("nil sets should become empty: %v / %v", cleared.Status, cleared.Owners)
	}
}

func TestWithPage_ChangesOnlyPage(t *testing.T) {
	p := WithFilters(WithQuery(DefaultSearchParams("check"), "nike"), []string{"Pending"}, []string{"Nike, Inc."})

	got := WithPage(p, 5)
	if got.Page != 5 {
		t.Fatalf("Page = %d, want 5", got.Page)
	}
	got.Page = p.Page
	if !reflect.DeepEqual(got, p) {
		t.Errorf("WithPage changed more than the page:\n got %+v\nwant %+v", got, p)
	}

	if WithPage(p, 0).Page != 1 {
		t.Error("page 0 should clamp to 1")
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	p := Normalize(domain.SearchParams{InputQuery: "x", SortBy: "date", SortOrder: "asc", Rows: 25, Page: 2})
	if p.SortBy != "date" || p.SortOrder != "asc" || p.Rows != 25 || p.Page != 2 {
		t.Errorf("Normalize overwrote explicit values: %+v", p)
	}
}

func TestParamsKey(t *testing.T) {
	base := DefaultSearchParams("nike")

	if ParamsKey(base) != ParamsKey(domain.SearchParams{InputQuery: "nike"}) {
		t.Error("normalized and sparse forms of the same request should share a key")
	}

	variants := []domain.SearchParams{
		WithQuery(base, "NIKE"),
		WithPage(base, 2),
		WithFilters(base, []string{"Registered"}, nil),
		WithFilters(base, nil, []string{"Nike, Inc."}),
	}
	seen := map[string]bool{ParamsKey(base): true}
	for i, v := range variants {
		k := ParamsKey(v)
		if seen[k] {
			t.Errorf("variant %d collides with an earlier key", i)
		}
		seen[k] = true
	}
	if len(ParamsKey(base)) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(ParamsKey(base)))
	}
}

func TestParamsKey_IgnoresSetOrder(t *testing.T) {
	base := DefaultSearchParams("nike")
	a := WithFilters(base, []string{"Registered", "Pending"}, []string{"Nike, Inc.", "Adidas AG"})
	b := WithFilters(base, []string{"Pending", "Registered"}, []string{"Adidas AG", "Nike, Inc."})
	a.Classes = []string{"025", "009"}
	b.Classes = []string{"009", "025"}

	if ParamsKey(a) != ParamsKey(b) {
		t.Error("reordered filter sets should share a key")
	}
	if !slices.Equal(a.Status, []string{"Registered", "Pending"}) || !slices.Equal(a.Classes, []string{"025", "009"}) {
		t.Errorf("ParamsKey reordered its argument: status %v classes %v", a.Status, a.Classes)
	}
	if ParamsKey(a) == ParamsKey(WithFilters(base, []string{"Registered"}, a.Owners)) {
		t.Error("different status sets should not share a key")
	}
}
