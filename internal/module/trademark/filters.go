package trademark

import (
	"slices"
	"strings"
)

// StatusOptions are the status filters offered in the sidebar.
var StatusOptions = []string{"Registered", "Pending", "Abandoned", "Cancelled", "Expired"}

// OwnerOptions are the owner filters offered in the sidebar.
var OwnerOptions = []string{
	"Tesla, Inc.",
	"LEGALFORCE RAPC.",
	"SpaceX Inc.",
	"SpooqX Inc.",
	"Nike, Inc.",
	"Apple Inc.",
	"Microsoft Corporation",
}

// DefaultCountry is the only country offered for an application.
const DefaultCountry = "United States"

// FilterKind names a filter group.
type FilterKind string

const (
	FilterStatus FilterKind = "status"
	FilterOwner  FilterKind = "owner"
)

// FilterSet is a complete selection of both filter groups.
type FilterSet struct {
	Status []string `json:"status"`
	Owners []string `json:"owners"`
}

// Drafts holds sidebar form input that is kept between renders but never
// submitted anywhere.
type Drafts struct {
	RegistrabilityName        string
	RegistrabilityDescription string
	ApplicationName           string
	Country                   string
}

// FilterComposer owns the sidebar selections. Every change in membership is
// reported to onChange with the complete new FilterSet. It is not safe for
// concurrent use; the owning Session serializes access.
type FilterComposer struct {
	status      []string
	owners      []string
	ownerSearch string
	drafts      Drafts
	onChange    func(FilterSet)
}

// NewFilterComposer returns a composer with nothing selected.
func NewFilterComposer(onChange func(FilterSet)) *FilterComposer {
	return &FilterComposer{
		status:   []string{},
		owners:   []string{},
		drafts:   Drafts{Country: DefaultCountry},
		onChange: onChange,
	}
}

// Toggle flips value in the group named by kind. It reports false, without
// notifying, when kind or value is not one of the offered options.
func (f *FilterComposer) Toggle(kind FilterKind, value string) bool {
	switch kind {
	case FilterStatus:
		return f.ToggleStatus(value)
	case FilterOwner:
		return f.ToggleOwner(value)
	default:
		return false
	}
}

// ToggleStatus flips value in the status selection.
func (f *FilterComposer) ToggleStatus(value string) bool {
	if !slices.Contains(StatusOptions, value) {
		return false
	}
	f.status = toggle(f.status, value)
	f.notify()
	return true
}

// ToggleOwner flips value in the owner selection.
func (f *FilterComposer) ToggleOwner(value string) bool {
	if !slices.Contains(OwnerOptions, value) {
		return false
	}
	f.owners = toggle(f.owners, value)
	f.notify()
	return true
}

// Selected returns a copy of the current selection.
func (f *FilterComposer) Selected() FilterSet {
	return FilterSet{Status: slices.Clone(f.status), Owners: slices.Clone(f.owners)}
}

// IsSelected reports whether value is selected in the group named by kind.
func (f *FilterComposer) IsSelected(kind FilterKind, value string) bool {
	switch kind {
	case FilterStatus:
		return slices.Contains(f.status, value)
	case FilterOwner:
		return slices.Contains(f.owners, value)
	}
	return false
}

// SetOwnerSearch sets the text that narrows the displayed owner options.
func (f *FilterComposer) SetOwnerSearch(q string) { f.ownerSearch = q }

// OwnerSearch returns the text set by SetOwnerSearch.
func (f *FilterComposer) OwnerSearch() string { return f.ownerSearch }

// VisibleOwners returns the owner options containing the owner search text,
// ignoring case. Selection is unaffected by what is visible.
func (f *FilterComposer) VisibleOwners() []string {
	return MatchOwners(f.ownerSearch)
}

// MatchOwners returns the owner options containing q, ignoring case. An
// empty q matches every option.
func MatchOwners(q string) []string {
	q = strings.ToLower(q)
	if q == "" {
		return slices.Clone(OwnerOptions)
	}
	var out []string
	for _, o := range OwnerOptions {
		if strings.Contains(strings.ToLower(o), q) {
			out = append(out, o)
		}
	}
	return out
}

// Drafts returns the inert form drafts.
func (f *FilterComposer) Drafts() Drafts { return f.drafts }

// SetRegistrabilityDraft keeps the registrability form input.
func (f *FilterComposer) SetRegistrabilityDraft(name, description string) {
	f.drafts.RegistrabilityName = name
	f.drafts.RegistrabilityDescription = description
}

// SetApplicationDraft keeps the application form input. The country is fixed.
func (f *FilterComposer) SetApplicationDraft(name string) {
	f.drafts.ApplicationName = name
}

func (f *FilterComposer) notify() {
	if f.onChange != nil {
		f.onChange(f.Selected())
	}
}

// toggle removes value from set if present, otherwise appends it.
func toggle(set []string, value string) []string {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), value)
}
