package trademark

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// Defaults of the remote search request.
const (
	DefaultSortBy    = "default"
	DefaultSortOrder = "desc"
	DefaultRows      = 10
)

// DefaultSearchParams returns the request for query with every filter empty,
// sorted by relevance, first page of ten rows.
func DefaultSearchParams(query string) domain.SearchParams {
	return Normalize(domain.SearchParams{InputQuery: query})
}

// WithQuery returns p searching for text, back on page 1. The text is used
// as typed; empty text is a valid query.
func WithQuery(p domain.SearchParams, text string) domain.SearchParams {
	out := clone(p)
	out.InputQuery = text
	out.Page = 1
	return out
}

// WithFilters returns p with the status and owner sets replaced by the given
// complete sets, back on page 1.
func WithFilters(p domain.SearchParams, status, owners []string) domain.SearchParams {
	out := clone(p)
	out.Status = cloneSet(status)
	out.Owners = cloneSet(owners)
	out.Page = 1
	return out
}

// WithPage returns p on page. Pages below 1 become 1.
func WithPage(p domain.SearchParams, page int) domain.SearchParams {
	out := clone(p)
	out.Page = max(page, 1)
	return out
}

// Normalize fills unset scalar fields with their defaults and replaces nil
// sets with empty ones so they encode as [] rather than null.
func Normalize(p domain.SearchParams) domain.SearchParams {
	out := clone(p)
	if out.SortBy == "" {
		out.SortBy = DefaultSortBy
	}
	if out.SortOrder == "" {
		out.SortOrder = DefaultSortOrder
	}
	if out.Rows <= 0 {
		out.Rows = DefaultRows
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// ParamsKey identifies a normalized parameter set: the hex SHA-256 of its
// JSON encoding with every multi-value set sorted. Two requests share a key
// only if every field matches, filters included; the order of values within
// a set does not count. p itself is not modified.
func ParamsKey(p domain.SearchParams) string {
	// Normalize returns copies of the sets, so sorting them is local.
	out := Normalize(p)
	for _, set := range [][]string{
		out.Status, out.Owners, out.Attorneys, out.LawFirms,
		out.MarkDescriptionDescription, out.Classes, out.States, out.Counties,
	} {
		slices.Sort(set)
	}
	// SearchParams holds only strings, bools, ints and string slices.
	b, _ := json.Marshal(out)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func clone(p domain.SearchParams) domain.SearchParams {
	out := p
	out.Status = cloneSet(p.Status)
	out.Owners = cloneSet(p.Owners)
	out.Attorneys = cloneSet(p.Attorneys)
	out.LawFirms = cloneSet(p.LawFirms)
	out.MarkDescriptionDescription = cloneSet(p.MarkDescriptionDescription)
	out.Classes = cloneSet(p.Classes)
	out.States = cloneSet(p.States)
	out.Counties = cloneSet(p.Counties)
	return out
}

// cloneSet copies s; nil becomes an empty, non-nil slice.
func cloneSet(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
