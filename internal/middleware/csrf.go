package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/tmsearch/internal/pkg"
)

const (
	csrfCookieName = "_csrf_token"
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"

	csrfRejectedMessage = "Your session expired. Please reload the page."
)

// csrfSigner issues and checks tokens of the form nonce + "." + sig where
// sig is base64url(HMAC-SHA256(nonce, secret)).
type csrfSigner struct {
	secret []byte
}

func (s csrfSigner) issue() string {
	nonce := uuid.NewString()
	return nonce + "." + s.sign(nonce)
}

func (s csrfSigner) sign(nonce string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s csrfSigner) valid(token string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(s.sign(nonce))) == 1
}

// CSRF protects the page routes with a signed double-submit cookie.
//
// Safe methods get a token cookie (readable by scripts so htmx can echo it)
// and the token is exposed to templates through GetCSRFToken. Unsafe methods
// must send the same token in the "_csrf_token" form field or the
// X-CSRF-Token header. Rejected htmx requests get an error toast, others a
// 403 JSON body.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "csrf secret is required",
			})
		}
	}

	signer := csrfSigner{secret: []byte(secret)}
	secure := gin.Mode() == gin.ReleaseMode

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.Cookie(csrfCookieName)
			if err != nil || !signer.valid(token) {
				token = signer.issue()
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			c.Set(csrfContextKey, token)
			c.Next()
			return
		}

		cookieToken, _ := c.Cookie(csrfCookieName)
		requestToken := c.PostForm(csrfFormField)
		if requestToken == "" {
			requestToken = c.GetHeader(csrfHeaderName)
		}

		switch {
		case cookieToken == "" || requestToken == "":
			rejectCSRF(c, "CSRF token missing")
		case !signer.valid(cookieToken) || subtle.ConstantTimeCompare([]byte(cookieToken), []byte(requestToken)) != 1:
			rejectCSRF(c, "CSRF token invalid")
		default:
			c.Set(csrfContextKey, cookieToken)
			c.Next()
		}
	}
}

func rejectCSRF(c *gin.Context, reason string) {
	if pkg.IsHTMX(c) {
		c.Header("HX-Reswap", "none")
		pkg.ShowToast(c, csrfRejectedMessage, pkg.ToastError)
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
		Code:    http.StatusForbidden,
		Message: reason,
	})
}

// GetCSRFToken returns the token set by CSRF, or "" if none.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
