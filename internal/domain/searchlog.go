package domain

import (
	"context"

	"github.com/simp-lee/pagination"
)

// Search log sources and outcomes.
const (
	SearchSourceRemote = "remote"
	SearchSourceCache  = "cache"

	SearchOutcomeOK    = "ok"
	SearchOutcomeError = "error"
)

// SearchLog records one served search. Only the query shape and outcome are
// kept; result rows are never stored.
type SearchLog struct {
	BaseModel
	Query        string `gorm:"size:255;index" json:"query"`
	ParamsKey    string `gorm:"size:128;index" json:"params_key"`
	Page         int    `json:"page"`
	Source       string `gorm:"size:16" json:"source"`
	Outcome      string `gorm:"size:16;index" json:"outcome"`
	TotalResults int    `json:"total_results"`
	DurationMS   int64  `json:"duration_ms"`
}

// SearchLogRepository persists and lists search logs.
type SearchLogRepository interface {
	Create(ctx context.Context, entry *SearchLog) error
	List(ctx context.Context, req PageRequest) (*pagination.Pagination[SearchLog], error)
}
