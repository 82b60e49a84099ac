package trademark

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// fakeRemote counts calls and answers with resp or err. When gate is set,
// each call waits for it to close.
type fakeRemote struct {
	calls  atomic.Int32
	resp   *domain.SearchResponse
	err    error
	gate   chan struct{}
	ctxErr error
	mu     sync.Mutex
	params []domain.SearchParams
}

func (f *fakeRemote) Search(ctx context.Context, p domain.SearchParams) (*domain.SearchResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.params = append(f.params, p)
	f.ctxErr = ctx.Err()
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fakeLogRepo captures search log entries.
type fakeLogRepo struct {
	mu      sync.Mutex
	entries []domain.SearchLog
	err     error
}

func (f *fakeLogRepo) Create(_ context.Context, e *domain.SearchLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *e)
	return f.err
}

func (f *fakeLogRepo) List(context.Context, domain.PageRequest) (*pagination.Pagination[domain.SearchLog], error) {
	return nil, errors.New("not used")
}

func nikeResult() *domain.SearchResponse {
	return &domain.SearchResponse{
		Trademarks:   []domain.TrademarkResult{{Mark: "NIKE", Owner: "Nike, Inc."}},
		TotalResults: 1,
	}
}

func newTestService(t *testing.T, remote *fakeRemote, logs domain.SearchLogRepository) *Service {
	return newTestServiceWithin(t, remote, logs, 5*time.Minute)
}

func newTestServiceWithin(t *testing.T, remote *fakeRemote, logs domain.SearchLogRepository, staleAfter time.Duration) *Service {
	t.Helper()
	return NewService(remote, newTestMemoryCache(t, 100), staleAfter, logs, discardLogger())
}

func TestService_ReusesWithinStalenessWindow(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{resp: nikeResult()}
	svc := newTestServiceWithin(t, remote, nil, 50*time.Millisecond)
	p := DefaultSearchParams("nike")

	for range 3 {
		if _, err := svc.Search(ctx, p); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if n := remote.calls.Load(); n != 1 {
		t.Fatalf("remote calls = %d, want 1 within window", n)
	}

	time.Sleep(80 * time.Millisecond)
	svc.Search(ctx, p)
	if n := remote.calls.Load(); n != 2 {
		t.Errorf("remote calls = %d, want refetch after window", n)
	}
}

func TestService_KeyIncludesFilters(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{resp: nikeResult()}
	svc := newTestService(t, remote, nil)
	p := DefaultSearchParams("nike")

	svc.Search(ctx, p)
	svc.Search(ctx, WithFilters(p, []string{"Registered"}, nil))
	svc.Search(ctx, WithPage(p, 2))

	if n := remote.calls.Load(); n != 3 {
		t.Errorf("remote calls = %d, want 3 distinct parameter sets", n)
	}
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{err: domain.NewNetworkError(errors.New("status 503"))}
	svc := newTestService(t, remote, nil)
	p := DefaultSearchParams("nike")

	resp, err := svc.Search(ctx, p)
	if resp != nil || !domain.IsNetwork(err) {
		t.Fatalf("Search() = %v, %v; want nil, network error", resp, err)
	}

	remote.err = nil
	remote.resp = nikeResult()
	if _, err := svc.Search(ctx, p); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if n := remote.calls.Load(); n != 2 {
		t.Errorf("remote calls = %d, want 2", n)
	}
}

func TestService_CoalescesConcurrentSearches(t *testing.T) {
	remote := &fakeRemote{resp: nikeResult(), gate: make(chan struct{})}
	svc := newTestService(t, remote, nil)
	p := DefaultSearchParams("nike")

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*domain.SearchResponse, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Search(context.Background(), p)
		}()
	}

	// Let every caller join the in-flight call before it completes.
	time.Sleep(100 * time.Millisecond)
	close(remote.gate)
	wg.Wait()

	if n := remote.calls.Load(); n != 1 {
		t.Errorf("remote calls = %d, want 1", n)
	}
	for i, r := range results {
		if r == nil || r.TotalResults != 1 {
			t.Errorf("caller %d got %+v", i, r)
		}
	}
}

func TestService_DetachesRemoteFromCallerCancel(t *testing.T) {
	remote := &fakeRemote{resp: nikeResult()}
	svc := newTestService(t, remote, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Search(ctx, DefaultSearchParams("nike")); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if remote.ctxErr != nil {
		t.Errorf("remote saw ctx error %v, want detached context", remote.ctxErr)
	}
}

func TestService_NormalizesParams(t *testing.T) {
	remote := &fakeRemote{resp: nikeResult()}
	svc := newTestService(t, remote, nil)

	svc.Search(context.Background(), domain.SearchParams{InputQuery: "nike"})
	got := remote.params[0]
	if got.Rows != 10 || got.Page != 1 || got.Status == nil {
		t.Errorf("remote params not normalized: %+v", got)
	}
}

func TestService_RecordsSearchLog(t *testing.T) {
	ctx := context.Background()
	logs := &fakeLogRepo{}
	remote := &fakeRemote{resp: nikeResult()}
	svc := newTestService(t, remote, logs)
	p := DefaultSearchParams("nike")

	svc.Search(ctx, p)
	svc.Search(ctx, p)
	remote.err = errors.New("boom")
	svc.Search(ctx, WithPage(p, 2))

	if len(logs.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(logs.entries))
	}
	first, second, third := logs.entries[0], logs.entries[1], logs.entries[2]
	if first.Source != domain.SearchSourceRemote || first.Outcome != domain.SearchOutcomeOK || first.TotalResults != 1 {
		t.Errorf("first = %+v", first)
	}
	if second.Source != domain.SearchSourceCache || second.ParamsKey != first.ParamsKey {
		t.Errorf("second = %+v", second)
	}
	if third.Outcome != domain.SearchOutcomeError || third.Page != 2 || third.Query != "nike" {
		t.Errorf("third = %+v", third)
	}
}

func TestService_SearchLogFailureIsNotFatal(t *testing.T) {
	logs := &fakeLogRepo{err: errors.New("disk full")}
	svc := newTestService(t, &fakeRemote{resp: nikeResult()}, logs)

	if _, err := svc.Search(context.Background(), DefaultSearchParams("nike")); err != nil {
		t.Fatalf("Search() error = %v, want search log failure ignored", err)
	}
}
