package trademark

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/domain"
	"github.com/simp-lee/tmsearch/internal/pkg"
)

// TrademarkHandler handles the trademark JSON API.
type TrademarkHandler struct {
	svc          domain.TrademarkService
	actions      Actions
	defaultQuery string
}

// NewTrademarkHandler creates a TrademarkHandler. defaultQuery is the query
// reported by Defaults.
func NewTrademarkHandler(svc domain.TrademarkService, actions Actions, defaultQuery string) *TrademarkHandler {
	return &TrademarkHandler{svc: svc, actions: actions, defaultQuery: defaultQuery}
}

// Search handles POST /api/v1/trademarks/search.
func (h *TrademarkHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	h.search(c, req.Params())
}

// SearchGet handles GET /api/v1/trademarks/search.
func (h *TrademarkHandler) SearchGet(c *gin.Context) {
	var q SearchQuery
	if !pkg.BindAndValidate(c, &q) {
		return
	}
	h.search(c, q.Params())
}

func (h *TrademarkHandler) search(c *gin.Context, params domain.SearchParams) {
	resp, err := h.svc.Search(c.Request.Context(), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, SearchResult{
		Params:  params,
		Results: resp,
		Summary: Summary(resp.TotalResults),
	})
}

// Defaults handles GET /api/v1/trademarks/defaults.
func (h *TrademarkHandler) Defaults(c *gin.Context) {
	pkg.Success(c, DefaultSearchParams(h.defaultQuery))
}

// Filters handles GET /api/v1/trademarks/filters. owner_q narrows the owner
// options.
func (h *TrademarkHandler) Filters(c *gin.Context) {
	var form OwnerSearchForm
	if !pkg.BindAndValidate(c, &form) {
		return
	}
	pkg.Success(c, gin.H{
		"status":  StatusOptions,
		"owners":  MatchOwners(form.OwnerQ),
		"country": DefaultCountry,
	})
}

// Registrability handles POST /api/v1/trademarks/registrability.
func (h *TrademarkHandler) Registrability(c *gin.Context) {
	var req RegistrabilityRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	notice, err := h.actions.CheckRegistrability(c.Request.Context(), req.Name, req.Description)
	respondAction(c, notice, err)
}

// Apply handles POST /api/v1/trademarks/apply.
func (h *TrademarkHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	notice, err := h.actions.Apply(c.Request.Context(), req.TrademarkName, DefaultCountry)
	respondAction(c, notice, err)
}

// respondAction writes notice as data, with the status of err when set.
func respondAction(c *gin.Context, notice Notice, err error) {
	if err == nil {
		pkg.Success(c, notice)
		return
	}
	status := domain.HTTPStatusCode(err)
	c.JSON(status, pkg.Response{Code: status, Message: pkg.PublicMessage(err), Data: notice})
}
