package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/tmsearch/internal/pkg"
)

const panicToastMessage = "Something went wrong. Please try again."

// Recovery recovers from panics and logs them with the stack trace. The
// response depends on the caller: htmx requests get an error toast and no
// swap, browsers get the errors/500.html page and everything else gets the
// standard JSON envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)
			c.Abort()

			switch {
			case pkg.IsHTMX(c):
				c.Header("HX-Reswap", "none")
				pkg.ShowToast(c, panicToastMessage, pkg.ToastError)
				c.Status(http.StatusInternalServerError)
			case acceptsHTML(c):
				renderErrorPage(c)
			default:
				c.JSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// renderErrorPage renders errors/500.html, falling back to plain text when
// no HTML renderer is configured.
func renderErrorPage(c *gin.Context) {
	defer func() {
		if recover() != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}
