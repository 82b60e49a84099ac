package trademark

import "github.com/gin-gonic/gin"

// TrademarkModule implements the app.Module interface for trademark search.
type TrademarkModule struct {
	handler     *TrademarkHandler
	pageHandler *TrademarkPageHandler
}

// NewModule creates a new TrademarkModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *TrademarkHandler, ph *TrademarkPageHandler) *TrademarkModule {
	if h == nil {
		panic("trademark.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("trademark.NewModule: pageHandler must not be nil")
	}
	return &TrademarkModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers trademark API and page routes.
func (m *TrademarkModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// API routes
	tm := api.Group("/trademarks")
	tm.POST("/search", m.handler.Search)
	tm.GET("/search", m.handler.SearchGet)
	tm.GET("/defaults", m.handler.Defaults)
	tm.GET("/filters", m.handler.Filters)
	tm.POST("/registrability", m.handler.Registrability)
	tm.POST("/apply", m.handler.Apply)

	// Page routes
	pages.GET("/", m.pageHandler.Index)
	pages.POST("/search", m.pageHandler.Search)
	pages.POST("/filters/toggle", m.pageHandler.ToggleFilter)
	pages.GET("/filters/owners", m.pageHandler.OwnerOptions)
	pages.POST("/page", m.pageHandler.Page)
	pages.POST("/registrability", m.pageHandler.Registrability)
	pages.POST("/apply", m.pageHandler.Apply)
}
