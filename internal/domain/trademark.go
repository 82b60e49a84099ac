package domain

import "context"

// SearchParams is the request body accepted by the remote trademark search
// endpoint. Field names on the wire must match exactly, and every multi-value
// filter is sent even when empty.
type SearchParams struct {
	InputQuery                 string   `json:"input_query"`
	InputQueryType             string   `json:"input_query_type"`
	SortBy                     string   `json:"sort_by"`
	Status                     []string `json:"status"`
	ExactMatch                 bool     `json:"exact_match"`
	DateQuery                  bool     `json:"date_query"`
	Owners                     []string `json:"owners"`
	Attorneys                  []string `json:"attorneys"`
	LawFirms                   []string `json:"law_firms"`
	MarkDescriptionDescription []string `json:"mark_description_description"`
	Classes                    []string `json:"classes"`
	Page                       int      `json:"page"`
	Rows                       int      `json:"rows"`
	SortOrder                  string   `json:"sort_order"`
	States                     []string `json:"states"`
	Counties                   []string `json:"counties"`
}

// TrademarkResult is one registration record as displayed by the UI.
// Fields the remote source omits stay empty.
type TrademarkResult struct {
	Mark               string   `json:"mark,omitempty"`
	Owner              string   `json:"owner,omitempty"`
	Status             string   `json:"status,omitempty"`
	StatusDate         string   `json:"statusDate,omitempty"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
	FilingDate         string   `json:"filingDate,omitempty"`
	ClassDescription   string   `json:"classDescription,omitempty"`
	ClassNumbers       []string `json:"classNumbers,omitempty"`
	ExpiryDate         string   `json:"expiryDate,omitempty"`
}

// SearchResponse is one page of results. TotalResults counts every match on
// the server side and may exceed len(Trademarks).
type SearchResponse struct {
	Trademarks   []TrademarkResult `json:"trademarks"`
	TotalResults int               `json:"totalResults"`
}

// TrademarkService searches trademarks for a parameter set.
type TrademarkService interface {
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
}
