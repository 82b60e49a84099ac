package searchlog

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/domain"
	"github.com/simp-lee/tmsearch/internal/pkg"
)

// SearchLogHandler serves the search log API.
type SearchLogHandler struct {
	repo domain.SearchLogRepository
}

// NewSearchLogHandler creates a SearchLogHandler reading from repo.
func NewSearchLogHandler(repo domain.SearchLogRepository) *SearchLogHandler {
	return &SearchLogHandler{repo: repo}
}

// List handles GET /api/v1/search-logs.
//
// Query parameters: page, page_size, sort (e.g. "duration_ms:desc") and
// filters such as query__like=nike, outcome=error or duration_ms__gte=500.
func (h *SearchLogHandler) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.repo.List(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, result)
}
