package searchlog

import (
	"context"

	"github.com/simp-lee/pagination"
	"gorm.io/gorm"

	"github.com/simp-lee/tmsearch/internal/domain"
	"github.com/simp-lee/tmsearch/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "created_at", "duration_ms", "total_results", "page"}
	allowedFilterFields = []string{"query", "params_key", "source", "outcome", "duration_ms", "total_results", "created_at"}
)

// searchLogRepository implements domain.SearchLogRepository using GORM.
type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository creates a SearchLogRepository backed by db.
func NewSearchLogRepository(db *gorm.DB) domain.SearchLogRepository {
	return &searchLogRepository{db: db}
}

// Create inserts one search log entry.
func (r *searchLogRepository) Create(ctx context.Context, entry *domain.SearchLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// List returns a page of search logs. Count and page are read in one
// transaction so the total matches the rows. A page past the end returns
// the last page.
func (r *searchLogRepository) List(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.SearchLog], error) {
	var result *pagination.Pagination[domain.SearchLog]
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		base := tx.Model(&domain.SearchLog{}).
			Scopes(pkg.Filter(req, allowedFilterFields)).
			Session(&gorm.Session{})

		p := pagination.NewPaginator(
			pagination.WithItemsPerPage[domain.SearchLog](req.PageSize),
			pagination.WithItemTotalCallback[domain.SearchLog](func(context.Context) (int64, error) {
				var total int64
				err := base.Count(&total).Error
				return total, err
			}),
			pagination.WithSliceCallback(func(_ context.Context, offset, limit int) ([]domain.SearchLog, error) {
				var logs []domain.SearchLog
				err := base.Scopes(pkg.Sort(req, allowedSortFields)).
					Offset(offset).
					Limit(limit).
					Find(&logs).Error
				return logs, err
			}),
		)

		var err error
		result, err = p.Paginate(ctx, max(req.Page, 1))
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
