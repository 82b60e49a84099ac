package trademark

import (
	"sync"
	"time"

	"github.com/google/uuid"
	shardedcache "github.com/simp-lee/cache"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// FallbackTotal is the total shown with FallbackResults.
const FallbackTotal = 160

// FallbackResults are shown before the first successful search completes,
// as long as no error is active.
func FallbackResults() []domain.TrademarkResult {
	return []domain.TrademarkResult{
		{
			Mark:               "NIKE",
			Owner:              "Nike, Inc.",
			Status:             "Live/Registered",
			StatusDate:         "on 24 Oct 2023",
			RegistrationNumber: "73302505",
			FilingDate:         "23 Mar 1981",
			ClassDescription:   "Retail Footwear and Apparel Store Services",
			ClassNumbers:       []string{"042"},
			ExpiryDate:         "21 Jun 2033",
		},
		{
			Mark:               "NIKE",
			Owner:              "Nike, Inc.",
			Status:             "Live/Registered",
			StatusDate:         "on 29 Sep 2023",
			RegistrationNumber: "73361064",
			FilingDate:         "22 Apr 1982",
			ClassDescription:   "ATHLETIC AND CASUAL CLOTHING FOR MEN, WOMEN AND CHILDREN-NAMELY SHIRT",
			ClassNumbers:       []string{"025"},
			ExpiryDate:         "10 May 2033",
		},
		{
			Mark:               "NIKE",
			Owner:              "Nike, Inc.",
			Status:             "Live/Registered",
			StatusDate:         "on 14 Mar 2023",
			RegistrationNumber: "87295796",
			FilingDate:         "10 Jan 2017",
			ClassDescription:   "Entertainment services in the nature of organizing sporting events",
			ClassNumbers:       []string{"041"},
			ExpiryDate:         "30 Aug 2027",
		},
	}
}

// Ticket identifies one dispatched search. Only the ticket of the latest
// dispatch may commit its result.
type Ticket struct {
	Generation uint64
	Params     domain.SearchParams
}

// PageState is a consistent copy of a session for rendering.
type PageState struct {
	Query         string
	ResultsQuery  string
	Params        domain.SearchParams
	Filters       FilterSet
	OwnerSearch   string
	VisibleOwners []string
	Drafts        Drafts
	Results       []domain.TrademarkResult
	Total         int
	ErrorActive   bool
	Fallback      bool
}

// Session holds the search page state of one browser. All methods are safe
// for concurrent use.
type Session struct {
	ID string

	mu         sync.Mutex
	query      string
	params     domain.SearchParams
	filters    *FilterComposer
	generation uint64
	committed  *domain.SearchResponse
	shownQuery string
	errActive  bool
}

// NewSession returns a session searching for defaultQuery with no filters.
func NewSession(id, defaultQuery string) *Session {
	s := &Session{
		ID:     id,
		query:  defaultQuery,
		params: DefaultSearchParams(defaultQuery),
	}
	s.filters = NewFilterComposer(s.applyFilters)
	return s
}

// applyFilters is the FilterComposer callback; s.mu is already held.
func (s *Session) applyFilters(set FilterSet) {
	s.params = WithFilters(s.params, set.Status, set.Owners)
}

// Begin dispatches the current parameters under a new generation.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked()
}

func (s *Session) beginLocked() Ticket {
	s.generation++
	return Ticket{Generation: s.generation, Params: clone(s.params)}
}

// Submit sets the query text and dispatches it from page 1.
func (s *Session) Submit(text string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = text
	s.params = WithQuery(s.params, text)
	return s.beginLocked()
}

// ToggleFilter flips a filter value and dispatches the new filter set. ok is
// false, and nothing is dispatched, for an unknown kind or value.
func (s *Session) ToggleFilter(kind FilterKind, value string) (t Ticket, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filters.Toggle(kind, value) {
		return Ticket{}, false
	}
	return s.beginLocked(), true
}

// GoToPage dispatches the current search on page.
func (s *Session) GoToPage(page int) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = WithPage(s.params, page)
	return s.beginLocked()
}

// SetOwnerSearch narrows the displayed owner options.
func (s *Session) SetOwnerSearch(q string) {
	s.mu.Lock()
	s.filters.SetOwnerSearch(q)
	s.mu.Unlock()
}

// SetRegistrabilityDraft keeps the registrability form input.
func (s *Session) SetRegistrabilityDraft(name, description string) {
	s.mu.Lock()
	s.filters.SetRegistrabilityDraft(name, description)
	s.mu.Unlock()
}

// SetApplicationDraft keeps the application form input.
func (s *Session) SetApplicationDraft(name string) {
	s.mu.Lock()
	s.filters.SetApplicationDraft(name)
	s.mu.Unlock()
}

// Resolve commits the outcome of t. It returns false, changing nothing, when
// a newer search has been dispatched since t. A failure keeps the last
// committed result and marks the error active until the next success.
func (s *Session) Resolve(t Ticket, resp *domain.SearchResponse, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation {
		return false
	}
	if err != nil || resp == nil {
		s.errActive = true
		return true
	}
	s.committed = resp
	s.shownQuery = t.Params.InputQuery
	s.errActive = false
	return true
}

// Generation returns the number of searches dispatched so far.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// State returns a snapshot for rendering. ResultsQuery is the query of the
// displayed results. Before the first success, and with no error active, the
// fallback results are shown.
func (s *Session) State() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := PageState{
		Query:         s.query,
		ResultsQuery:  s.query,
		Params:        clone(s.params),
		Filters:       s.filters.Selected(),
		OwnerSearch:   s.filters.OwnerSearch(),
		VisibleOwners: s.filters.VisibleOwners(),
		Drafts:        s.filters.Drafts(),
		ErrorActive:   s.errActive,
		Results:       []domain.TrademarkResult{},
	}
	switch {
	case s.committed != nil:
		st.Results = s.committed.Trademarks
		st.Total = s.committed.TotalResults
		st.ResultsQuery = s.shownQuery
	case !s.errActive:
		st.Results = FallbackResults()
		st.Total = FallbackTotal
		st.Fallback = true
	}
	return st
}

// sessionCleanupInterval is how often idle sessions are swept.
const sessionCleanupInterval = time.Minute

// SessionStore keeps sessions in memory keyed by a random ID and drops those
// idle for longer than the idle timeout. When full, the least recently used
// session is dropped.
type SessionStore struct {
	store        shardedcache.CacheInterface
	defaultQuery string
	closeOnce    sync.Once
}

// NewSessionStore returns an empty store. Sessions start with defaultQuery.
// idle <= 0 keeps sessions until they are displaced and maxActive <= 0
// removes the bound. Close stops the background sweep.
func NewSessionStore(defaultQuery string, idle time.Duration, maxActive int) *SessionStore {
	return &SessionStore{
		store: shardedcache.NewCache(shardedcache.Options{
			MaxSize:           max(maxActive, 0),
			DefaultExpiration: max(idle, 0),
			CleanupInterval:   sessionCleanupInterval,
			// One shard so MaxSize bounds the whole store.
			ShardCount: 1,
		}),
		defaultQuery: defaultQuery,
	}
}

// Get returns the live session for id and restarts its idle timeout.
func (st *SessionStore) Get(id string) (*Session, bool) {
	v, ok := st.store.Get(id)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	if !ok {
		st.store.Delete(id)
		return nil, false
	}
	st.store.Set(id, s)
	return s, true
}

// Create starts a new session.
func (st *SessionStore) Create() *Session {
	s := NewSession(uuid.NewString(), st.defaultQuery)
	st.store.Set(s.ID, s)
	return s
}

// GetOrCreate returns the session for id, or a new one when id is unknown or
// expired. created reports which.
func (st *SessionStore) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(), true
}

// Len returns the number of stored sessions, idle ones not yet swept
// included.
func (st *SessionStore) Len() int {
	return st.store.Count()
}

// Close stops the background sweep and drops every session.
func (st *SessionStore) Close() {
	st.closeOnce.Do(func() {
		st.store.Clear()
		st.store.Close()
	})
}
