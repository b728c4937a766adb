package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// SessionCarrier writes and clears the session cookie. Secure is set in
// production so the cookie only travels over TLS.
type SessionCarrier struct {
	maxAge int
	secure bool
}

// NewSessionCarrier creates a carrier issuing cookies that live maxAge
// seconds.
func NewSessionCarrier(maxAge int, secure bool) *SessionCarrier {
	return &SessionCarrier{maxAge: maxAge, secure: secure}
}

// Establish writes the session cookie. Calling it again simply overwrites
// the previous cookie.
func (s *SessionCarrier) Establish(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, s.maxAge, "/", "", s.secure, true)
}

// Revoke overwrites the cookie with an empty value and zero max-age so the
// client drops it immediately. Tokens already captured remain valid until
// natural expiry; there is no server-side revocation.
func (s *SessionCarrier) Revoke(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	// net/http serializes a negative MaxAge as Max-Age=0 on the wire.
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.secure, true)
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns ("", false) when the cookie is absent.
func TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
