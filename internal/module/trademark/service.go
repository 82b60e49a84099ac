package trademark

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// cacheWriteTimeout bounds cache writes after a successful fetch.
const cacheWriteTimeout = 2 * time.Second

// Service answers searches through the staleness cache. Concurrent searches
// for the same parameter set share one remote call.
type Service struct {
	remote     domain.TrademarkService
	cache      Cache
	staleAfter time.Duration
	logs       domain.SearchLogRepository
	log        *slog.Logger
	sf         singleflight.Group
}

// NewService wires the remote source, cache and optional search log
// repository (nil disables search logging).
func NewService(remote domain.TrademarkService, cache Cache, staleAfter time.Duration, logs domain.SearchLogRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		remote:     remote,
		cache:      cache,
		staleAfter: staleAfter,
		logs:       logs,
		log:        log,
	}
}

var _ domain.TrademarkService = (*Service)(nil)

type searchResult struct {
	resp   *domain.SearchResponse
	source string
}

// Search returns the response for params, reusing a cached response younger
// than the staleness window. The remote call is detached from ctx
// cancellation so a caller leaving early does not fail callers sharing the
// call.
func (s *Service) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	params = Normalize(params)
	key := ParamsKey(params)
	start := time.Now()

	v, err, _ := s.sf.Do(key, func() (any, error) {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return searchResult{resp: cached, source: domain.SearchSourceCache}, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache get error", slog.String("key", key), slog.Any("error", err))
		}

		resp, err := s.remote.Search(context.WithoutCancel(ctx), params)
		if err != nil {
			return nil, err
		}

		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
		defer cancel()
		if err := s.cache.Set(setCtx, key, resp, s.staleAfter); err != nil {
			s.log.WarnContext(ctx, "cache set error", slog.String("key", key), slog.Any("error", err))
		}
		return searchResult{resp: resp, source: domain.SearchSourceRemote}, nil
	})

	entry := &domain.SearchLog{
		Query:      params.InputQuery,
		ParamsKey:  key,
		Page:       params.Page,
		Source:     domain.SearchSourceRemote,
		Outcome:    domain.SearchOutcomeOK,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Outcome = domain.SearchOutcomeError
		s.log.ErrorContext(ctx, "trademark search failed",
			slog.String("query", params.InputQuery),
			slog.Int("page", params.Page),
			slog.Any("error", err),
		)
		s.record(ctx, entry)
		return nil, err
	}

	res := v.(searchResult)
	entry.Source = res.source
	entry.TotalResults = res.resp.TotalResults
	s.record(ctx, entry)

	s.log.DebugContext(ctx, "trademark search served",
		slog.String("query", params.InputQuery),
		slog.String("source", res.source),
		slog.Int("total", res.resp.TotalResults),
	)
	return res.resp, nil
}

func (s *Service) record(ctx context.Context, entry *domain.SearchLog) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.WarnContext(ctx, "failed to record search", slog.Any("error", err))
	}
}
