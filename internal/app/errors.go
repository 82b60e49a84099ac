package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/pkg"
)

// errorTemplates maps HTTP status codes to their error pages.
var errorTemplates = map[int]string{
	http.StatusBadRequest:          "errors/400.html",
	http.StatusNotFound:            "errors/404.html",
	http.StatusInternalServerError: "errors/500.html",
}

// renderError answers with the shape the client asked for: a toast for htmx,
// JSON for API clients and an error page for browsers.
func renderError(c *gin.Context, code int, message string) {
	if pkg.IsHTMX(c) {
		c.Header("HX-Reswap", "none")
		pkg.ShowToast(c, toastMessage(code), pkg.ToastError)
		c.Status(code)
		return
	}

	accept := strings.ToLower(c.GetHeader("Accept"))
	// Explicit JSON request; checked first because acceptsHTML also matches */*.
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		c.JSON(code, pkg.Response{Code: code, Message: message})
		return
	}
	if acceptsHTML(c) {
		renderHTMLErrorPage(c, code)
		return
	}
	c.JSON(code, pkg.Response{Code: code, Message: message})
}

// renderHTMLErrorPage renders the page for code, errors/500.html for codes
// without one, and plain text if rendering panics.
func renderHTMLErrorPage(c *gin.Context, code int) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("%d %s", code, http.StatusText(code))))
		}
	}()

	tmpl, ok := errorTemplates[code]
	if !ok {
		tmpl = errorTemplates[http.StatusInternalServerError]
	}
	c.HTML(code, tmpl, gin.H{})
}

// acceptsHTML matches text/html, */* (browser default) and an empty Accept.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

func toastMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "That page does not exist."
	case http.StatusBadRequest:
		return "Please check your input and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
