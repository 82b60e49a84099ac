package trademark

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// ResultsView is the view model of the results list.
type ResultsView struct {
	Empty       bool
	Header      string
	Query       string
	Suggestions []string
	Rows        []ResultRow
}

// ResultRow is one rendered result. Index is the row position; results have
// no identity of their own.
type ResultRow struct {
	Index              int
	Mark               string
	Owner              string
	RegistrationNumber string
	FilingDate         string
	Status             string
	StatusDate         string
	Live               bool
	ExpiryDate         string
	ClassDescription   string
	ClassChips         []string
}

// BuildResultsView builds the results list for one committed page. An empty
// results slice yields the zero state with no rows.
func BuildResultsView(results []domain.TrademarkResult, total int, query string) ResultsView {
	if len(results) == 0 {
		return ResultsView{Empty: true, Query: query}
	}

	v := ResultsView{
		Header:      fmt.Sprintf("About %d Trademarks found for \"%s\"", total, query),
		Query:       query,
		Suggestions: suggestions(query),
		Rows:        make([]ResultRow, 0, len(results)),
	}
	for i, r := range results {
		v.Rows = append(v.Rows, buildRow(i, r))
	}
	return v
}

func buildRow(i int, r domain.TrademarkResult) ResultRow {
	chips := make([]string, 0, len(r.ClassNumbers))
	for _, n := range r.ClassNumbers {
		chips = append(chips, "Class "+n)
	}
	return ResultRow{
		Index:              i,
		Mark:               r.Mark,
		Owner:              r.Owner,
		RegistrationNumber: r.RegistrationNumber,
		FilingDate:         r.FilingDate,
		Status:             r.Status,
		StatusDate:         r.StatusDate,
		Live:               r.ExpiryDate == "",
		ExpiryDate:         r.ExpiryDate,
		ClassDescription:   r.ClassDescription,
		ClassChips:         chips,
	}
}

// suggestions returns the query and its lower-cased form, once each.
func suggestions(query string) []string {
	if query == "" {
		return nil
	}
	out := []string{query}
	if lower := strings.ToLower(query); lower != query {
		out = append(out, lower)
	}
	return out
}

// Summary is the one-line count above the results list.
func Summary(total int) string {
	if total > 0 {
		return fmt.Sprintf("%d results found", total)
	}
	return "No results found"
}

// Pager describes the previous/next controls. PrevPage and NextPage are
// zero when the control is hidden.
type Pager struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// BuildPager computes the controls for page of rows-sized pages over total
// results. The rows of the page are fetched by the remote source, so only
// the page arithmetic is done here. A page past the end is shown as the last
// page.
func BuildPager(page, rows, total int) Pager {
	page = max(page, 1)
	if rows <= 0 {
		rows = DefaultRows
	}
	p, err := pagination.NewPaginator[domain.TrademarkResult](
		pagination.WithItemsPerPage[domain.TrademarkResult](rows),
		pagination.WithKnownTotal[domain.TrademarkResult](int64(max(total, 0))),
		pagination.WithSliceCallback(func(context.Context, int, int) ([]domain.TrademarkResult, error) {
			return nil, nil
		}),
	).Paginate(context.Background(), page)
	if err != nil {
		return Pager{Page: page, TotalPages: 1}
	}

	pager := Pager{
		Page:       p.CurrentPage,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPreviousPage(),
		HasNext:    p.HasNextPage(),
	}
	if p.PreviousPage != nil {
		pager.PrevPage = *p.PreviousPage
	}
	if p.NextPage != nil {
		pager.NextPage = *p.NextPage
	}
	return pager
}

// FilterOption is one sidebar checkbox.
type FilterOption struct {
	Kind    FilterKind
	Value   string
	Checked bool
}

// StatusFilterOptions returns every status option, checked when selected.
func StatusFilterOptions(selected []string) []FilterOption {
	return filterOptions(FilterStatus, StatusOptions, selected)
}

// OwnerFilterOptions returns the visible owner options, checked when selected.
func OwnerFilterOptions(visible, selected []string) []FilterOption {
	return filterOptions(FilterOwner, visible, selected)
}

func filterOptions(kind FilterKind, values, selected []string) []FilterOption {
	out := make([]FilterOption, 0, len(values))
	for _, v := range values {
		out = append(out, FilterOption{Kind: kind, Value: v, Checked: slices.Contains(selected, v)})
	}
	return out
}
