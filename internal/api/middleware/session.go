package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	SessionHeader = "X-Session-ID"

	sessionKey = "session_id"
)

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	// MaxAge in seconds; zero makes it a browser session cookie.
	MaxAge int
	Secure bool
}

// Session resolves the session of the request from the X-Session-ID header,
// then the session cookie. Anything that is not a ULID gets a fresh one.
// The id is echoed in both the header and the cookie.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "apodata_session"
	}
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			if v, err := c.Cookie(cfg.CookieName); err == nil {
				id = v
			}
		}
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, cfg.MaxAge, "/", "", cfg.Secure, true)
		c.Header(SessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
