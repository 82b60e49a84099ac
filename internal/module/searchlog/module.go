package searchlog

import "github.com/gin-gonic/gin"

// SearchLogModule implements the app.Module interface for the search log.
// It has no pages.
type SearchLogModule struct {
	handler *SearchLogHandler
}

// NewModule creates a SearchLogModule. Panics if h is nil.
func NewModule(h *SearchLogHandler) *SearchLogModule {
	if h == nil {
		panic("searchlog.NewModule: handler must not be nil")
	}
	return &SearchLogModule{handler: h}
}

// RegisterRoutes registers the search log API routes.
func (m *SearchLogModule) RegisterRoutes(api *gin.RouterGroup, _ *gin.RouterGroup) {
	api.GET("/search-logs", m.handler.List)
}
