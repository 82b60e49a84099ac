package trademark

import "github.com/simp-lee/tmsearch/internal/domain"

// SearchForm is the search box submission.
type SearchForm struct {
	Q string `form:"q"`
}

// ToggleFilterForm flips one sidebar checkbox.
type ToggleFilterForm struct {
	Kind  string `form:"kind" binding:"required,oneof=status owner"`
	Value string `form:"value" binding:"required,max=100"`
}

// OwnerSearchForm narrows the owner checklist.
type OwnerSearchForm struct {
	OwnerQ string `form:"owner_q" binding:"max=100"`
}

// PageForm changes the result page.
type PageForm struct {
	Page int `form:"page" binding:"required,min=1"`
}

// RegistrabilityRequest is the "check registrability" form.
type RegistrabilityRequest struct {
	Name        string `json:"name" form:"name" binding:"max=200"`
	Description string `json:"description" form:"description" binding:"max=2000"`
}

// ApplyRequest is the "apply for trademark" form.
type ApplyRequest struct {
	TrademarkName string `json:"trademark_name" form:"trademark_name" binding:"max=200"`
	Country       string `json:"country" form:"country" binding:"omitempty,eq=United States"`
}

// SearchRequest is the JSON search body. It carries the remote parameter
// set; omitted fields take their defaults.
type SearchRequest struct {
	InputQuery                 string   `json:"input_query"`
	InputQueryType             string   `json:"input_query_type"`
	SortBy                     string   `json:"sort_by"`
	Status                     []string `json:"status" binding:"omitempty,dive,max=100"`
	ExactMatch                 bool     `json:"exact_match"`
	DateQuery                  bool     `json:"date_query"`
	Owners                     []string `json:"owners" binding:"omitempty,dive,max=100"`
	Attorneys                  []string `json:"attorneys"`
	LawFirms                   []string `json:"law_firms"`
	MarkDescriptionDescription []string `json:"mark_description_description"`
	Classes                    []string `json:"classes"`
	Page                       int      `json:"page" binding:"omitempty,min=1"`
	Rows                       int      `json:"rows" binding:"omitempty,min=1,max=100"`
	SortOrder                  string   `json:"sort_order" binding:"omitempty,oneof=asc desc"`
	States                     []string `json:"states"`
	Counties                   []string `json:"counties"`
}

// Params returns the normalized parameter set.
func (r SearchRequest) Params() domain.SearchParams {
	return Normalize(domain.SearchParams{
		InputQuery:                 r.InputQuery,
		InputQueryType:             r.InputQueryType,
		SortBy:                     r.SortBy,
		Status:                     r.Status,
		ExactMatch:                 r.ExactMatch,
		DateQuery:                  r.DateQuery,
		Owners:                     r.Owners,
		Attorneys:                  r.Attorneys,
		LawFirms:                   r.LawFirms,
		MarkDescriptionDescription: r.MarkDescriptionDescription,
		Classes:                    r.Classes,
		Page:                       r.Page,
		Rows:                       r.Rows,
		SortOrder:                  r.SortOrder,
		States:                     r.States,
		Counties:                   r.Counties,
	})
}

// SearchQuery is the query string form of a search.
type SearchQuery struct {
	Q      string   `form:"q"`
	Status []string `form:"status" binding:"omitempty,dive,max=100"`
	Owners []string `form:"owners" binding:"omitempty,dive,max=100"`
	Page   int      `form:"page" binding:"omitempty,min=1"`
}

// Params builds the parameter set the UI would send for q.
func (q SearchQuery) Params() domain.SearchParams {
	p := WithFilters(DefaultSearchParams(q.Q), q.Status, q.Owners)
	if q.Page > 0 {
		p = WithPage(p, q.Page)
	}
	return p
}

// SearchResult is the API view of one search.
type SearchResult struct {
	Params  domain.SearchParams    `json:"params"`
	Results *domain.SearchResponse `json:"results"`
	Summary string                 `json:"summary"`
}
