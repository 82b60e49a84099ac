package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newRecoveryRouter(log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRecovery_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	w := doGet(newRecoveryRouter(newTestLogger(&buf)), "/ok", nil)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("got %d %q, want 200 ok", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}

func TestRecovery_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := doGet(newRecoveryRouter(newTestLogger(&buf)), "/panic", map[string]string{"Accept": "application/json"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["code"] != float64(500) || body["message"] != "internal server error" || body["data"] != nil {
		t.Errorf("body = %v", body)
	}

	out := buf.String()
	for _, want := range []string{"panic recovered", "boom", "path=/panic", "stack="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRecovery_HTMLFallbackWithoutRenderer(t *testing.T) {
	var buf bytes.Buffer
	w := doGet(newRecoveryRouter(newTestLogger(&buf)), "/panic", map[string]string{"Accept": "text/html,application/xhtml+xml"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "500") {
		t.Errorf("body = %q, want plain-text 500", w.Body.String())
	}
}

func TestRecovery_HTMXShowsToast(t *testing.T) {
	var buf bytes.Buffer
	w := doGet(newRecoveryRouter(newTestLogger(&buf)), "/panic", map[string]string{
		"HX-Request": "true",
		"Accept":     "text/html",
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q, want none", w.Header().Get("HX-Reswap"))
	}
	if !strings.Contains(w.Header().Get("HX-Trigger"), "showToast") {
		t.Errorf("HX-Trigger = %q, want showToast", w.Header().Get("HX-Trigger"))
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}
