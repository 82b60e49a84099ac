package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/pkg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAcceptsHTML(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   bool
	}{
		{"text/html", "text/html", true},
		{"mixed with html", "application/json, text/html", true},
		{"application/json only", "application/json", false},
		{"empty accept", "", true},
		{"wildcard accept", "*/*", true},
		{"case insensitive", "Text/HTML", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				c.Request.Header.Set("Accept", tt.accept)
			}
			if got := acceptsHTML(c); got != tt.want {
				t.Fatalf("acceptsHTML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderError_JSON(t *testing.T) {
	for _, code := range []int{400, 404, 500} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Accept", "application/json")

		renderError(c, code, "boom")

		if w.Code != code {
			t.Errorf("status = %d, want %d", w.Code, code)
		}
		var resp pkg.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Code != code || resp.Message != "boom" {
			t.Errorf("response = %+v", resp)
		}
	}
}

func TestRenderError_HTMX(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/search", nil)
	c.Request.Header.Set("HX-Request", "true")

	renderError(c, http.StatusInternalServerError, "boom")
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Header().Get("HX-Reswap"); got != "none" {
		t.Errorf("HX-Reswap = %q, want none", got)
	}
	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "showToast") || !strings.Contains(trigger, `"type":"error"`) {
		t.Errorf("HX-Trigger = %q", trigger)
	}
	if w.Body.Len() != 0 {
		t.Errorf("htmx error body should be empty, got %q", w.Body.String())
	}
}

func TestRenderError_HTMLPage(t *testing.T) {
	r := setupTestRouter()
	r.GET("/bad", func(c *gin.Context) { renderError(c, http.StatusBadRequest, "bad") })
	r.GET("/teapot", func(c *gin.Context) { renderError(c, http.StatusTeapot, "teapot") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bad", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "400") {
		t.Errorf("GET /bad = %d %q", w.Code, w.Body.String())
	}

	// Codes without a page fall back to the 500 template but keep their status.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot || !strings.Contains(w.Body.String(), "500") {
		t.Errorf("GET /teapot = %d %q", w.Code, w.Body.String())
	}
}

func TestRenderError_HTML_FallsBackToPlainText(t *testing.T) {
	// No HTML renderer configured, so c.HTML panics.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept", "text/html")

	renderError(c, http.StatusNotFound, "not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "404 Not Found") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestToastMessage(t *testing.T) {
	if toastMessage(http.StatusNotFound) == toastMessage(http.StatusInternalServerError) {
		t.Error("404 and 500 should have different toasts")
	}
	if toastMessage(http.StatusBadGateway) != toastMessage(http.StatusInternalServerError) {
		t.Error("unmapped codes should share the generic toast")
	}
}

func TestErrorTemplates(t *testing.T) {
	for _, code := range []int{400, 404, 500} {
		if _, ok := errorTemplates[code]; !ok {
			t.Errorf("missing error template for %d", code)
		}
	}
}
