package trademark

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/domain"
	"github.com/simp-lee/tmsearch/internal/middleware"
	"github.com/simp-lee/tmsearch/internal/pkg"
)

const (
	sessionCookieName = "tm_session"

	fetchFailedMessage = "Failed to fetch trademark data. Please try again."
	badInputMessage    = "Please check your input and try again."
)

// Toast is a notification rendered on a full page load. htmx responses carry
// the same data in the HX-Trigger header instead.
type Toast struct {
	Title   string
	Message string
	Type    string
}

// TrademarkPageHandler serves the search page and its htmx fragments. Every
// browser gets a Session that holds its query, filters and last results.
type TrademarkPageHandler struct {
	sessions *SessionStore
	svc      domain.TrademarkService
	actions  Actions
	log      *slog.Logger
}

// NewTrademarkPageHandler creates a TrademarkPageHandler.
func NewTrademarkPageHandler(sessions *SessionStore, svc domain.TrademarkService, actions Actions, log *slog.Logger) *TrademarkPageHandler {
	return &TrademarkPageHandler{sessions: sessions, svc: svc, actions: actions, log: log}
}

// Index renders the full page. Each load dispatches the session's current
// search; a repeat within the staleness window is served from cache.
// GET /
func (h *TrademarkPageHandler) Index(c *gin.Context) {
	s := h.session(c)
	var toast *Toast
	if h.dispatch(c, s, s.Begin()) {
		toast = &Toast{Title: "Error", Message: fetchFailedMessage, Type: pkg.ToastError}
	}
	c.HTML(http.StatusOK, "trademark/index.html", h.pageData(c, s.State(), toast))
}

// Search runs the search box query from page 1.
// POST /search
func (h *TrademarkPageHandler) Search(c *gin.Context) {
	var form SearchForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	failed := h.dispatch(c, s, s.Submit(form.Q))
	h.renderResults(c, s, failed)
}

// ToggleFilter flips one sidebar checkbox and searches with the new filter
// set from page 1.
// POST /filters/toggle
func (h *TrademarkPageHandler) ToggleFilter(c *gin.Context) {
	var form ToggleFilterForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	t, ok := s.ToggleFilter(FilterKind(form.Kind), form.Value)
	if !ok {
		h.badRequest(c, nil)
		return
	}
	failed := h.dispatch(c, s, t)
	h.renderResults(c, s, failed)
}

// OwnerOptions re-renders the owner checklist narrowed by owner_q. Nothing is
// searched.
// GET /filters/owners
func (h *TrademarkPageHandler) OwnerOptions(c *gin.Context) {
	var form OwnerSearchForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	s.SetOwnerSearch(form.OwnerQ)
	h.render(c, "trademark/owners.html", h.pageData(c, s.State(), nil))
}

// Page moves to another result page, keeping query and filters.
// POST /page
func (h *TrademarkPageHandler) Page(c *gin.Context) {
	var form PageForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	failed := h.dispatch(c, s, s.GoToPage(form.Page))
	h.renderResults(c, s, failed)
}

// Registrability keeps the form input and shows the "checking" notice.
// POST /registrability
func (h *TrademarkPageHandler) Registrability(c *gin.Context) {
	var req RegistrabilityRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	s.SetRegistrabilityDraft(req.Name, req.Description)
	notice, err := h.actions.CheckRegistrability(c.Request.Context(), req.Name, req.Description)
	h.renderNotice(c, s, notice, err)
}

// Apply keeps the form input and shows the application notice.
// POST /apply
func (h *TrademarkPageHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	s := h.session(c)
	s.SetApplicationDraft(req.TrademarkName)
	notice, err := h.actions.Apply(c.Request.Context(), req.TrademarkName, DefaultCountry)
	h.renderNotice(c, s, notice, err)
}

// session returns the caller's session, starting one when the cookie is
// missing or expired.
func (h *TrademarkPageHandler) session(c *gin.Context) *Session {
	id, _ := c.Cookie(sessionCookieName)
	s, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     sessionCookieName,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   gin.Mode() == gin.ReleaseMode,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// dispatch runs t and commits the outcome to s. It reports whether t failed
// and was still the latest search; a superseded outcome is dropped silently.
func (h *TrademarkPageHandler) dispatch(c *gin.Context, s *Session, t Ticket) bool {
	resp, err := h.svc.Search(c.Request.Context(), t.Params)
	if !s.Resolve(t, resp, err) {
		h.log.DebugContext(c.Request.Context(), "superseded search discarded",
			slog.Uint64("generation", t.Generation),
			slog.String("query", t.Params.InputQuery),
		)
		return false
	}
	return err != nil
}

func (h *TrademarkPageHandler) renderResults(c *gin.Context, s *Session, failed bool) {
	if !pkg.IsHTMX(c) {
		var toast *Toast
		if failed {
			toast = &Toast{Title: "Error", Message: fetchFailedMessage, Type: pkg.ToastError}
		}
		c.HTML(http.StatusOK, "trademark/index.html", h.pageData(c, s.State(), toast))
		return
	}
	if failed {
		pkg.ShowNotice(c, "Error", fetchFailedMessage, pkg.ToastError)
	}
	c.HTML(http.StatusOK, "trademark/results.html", h.pageData(c, s.State(), nil))
}

// render writes the fragment name for htmx and the full page otherwise.
func (h *TrademarkPageHandler) render(c *gin.Context, name string, data gin.H) {
	if !pkg.IsHTMX(c) {
		name = "trademark/index.html"
	}
	c.HTML(http.StatusOK, name, data)
}

func (h *TrademarkPageHandler) renderNotice(c *gin.Context, s *Session, notice Notice, err error) {
	toastType := pkg.ToastInfo
	if err != nil && !domain.IsNotImplemented(err) {
		toastType = pkg.ToastError
	}
	if !pkg.IsHTMX(c) {
		toast := &Toast{Title: notice.Title, Message: notice.Description, Type: toastType}
		c.HTML(http.StatusOK, "trademark/index.html", h.pageData(c, s.State(), toast))
		return
	}
	c.Header("HX-Reswap", "none")
	pkg.ShowNotice(c, notice.Title, notice.Description, toastType)
	c.Status(http.StatusOK)
}

func (h *TrademarkPageHandler) badRequest(c *gin.Context, err error) {
	if err != nil {
		h.log.DebugContext(c.Request.Context(), "invalid page input", slog.Any("error", err))
	}
	if pkg.IsHTMX(c) {
		c.Header("HX-Reswap", "none")
		pkg.ShowToast(c, badInputMessage, pkg.ToastError)
		c.Status(http.StatusBadRequest)
		return
	}
	c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
}

func (h *TrademarkPageHandler) pageData(c *gin.Context, st PageState, toast *Toast) gin.H {
	return gin.H{
		"State":         st,
		"Results":       BuildResultsView(st.Results, st.Total, st.ResultsQuery),
		"Summary":       Summary(st.Total),
		"Pager":         BuildPager(st.Params.Page, st.Params.Rows, st.Total),
		"StatusFilters": StatusFilterOptions(st.Filters.Status),
		"OwnerFilters":  OwnerFilterOptions(st.VisibleOwners, st.Filters.Owners),
		"Country":       DefaultCountry,
		"Toast":         toast,
		"CSRFToken":     middleware.GetCSRFToken(c),
	}
}
