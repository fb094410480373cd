// Package http provides the HTTP server, request guards, and handlers for
// the document protection layer.
package http

import (
	"github.com/gin-gonic/gin"
)

const (
	// HeaderSessionID carries the viewer session identifier.
	HeaderSessionID = "X-Session-ID"

	// HeaderCSRFToken carries the anti-forgery token on state-changing requests.
	HeaderCSRFToken = "X-CSRF-Token"

	// FormCSRFToken is the form-field fallback for the anti-forgery token.
	FormCSRFToken = "csrf_token"

	// sessionCookie is the cookie fallback for the session identifier.
	sessionCookie = "session_id"

	// clientIPKey stores the resolved caller address in the request context.
	clientIPKey = "resolved_client_ip"
)

// clientIP returns the address resolved by the security guard, falling back
// to the transport peer when the guard did not run.
func clientIP(c *gin.Context) string {
	if ip, ok := c.Get(clientIPKey); ok {
		if s, ok := ip.(string); ok && s != "" {
			return s
		}
	}
	return c.ClientIP()
}

// setClientIP records the resolved caller address for downstream handlers.
func setClientIP(c *gin.Context, ip string) {
	c.Set(clientIPKey, ip)
}

// sessionID extracts the viewer session identifier: header first, then the
// session cookie. Empty when the client supplied neither.
func sessionID(c *gin.Context) string {
	if sid := c.GetHeader(HeaderSessionID); sid != "" {
		return sid
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

// csrfToken extracts the anti-forgery token: header first, then form field.
func csrfToken(c *gin.Context) string {
	if token := c.GetHeader(HeaderCSRFToken); token != "" {
		return token
	}
	return c.PostForm(FormCSRFToken)
}
