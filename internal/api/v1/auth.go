package v1

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// PasswordHeader carries the admin password on JSON endpoints.
const PasswordHeader = "X-Admin-Password"

// checkPassword compares against the configured secret. An empty secret
// matches nothing.
func (h *Handler) checkPassword(given string) bool {
	if h.password == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.password)) == 1
}

// headerPassword reads the password from the header or the query string,
// never from the body.
func headerPassword(c *gin.Context) string {
	if v := c.GetHeader(PasswordHeader); v != "" {
		return v
	}
	return c.Query("password")
}

// requireAdmin rejects requests without the admin password.
func (h *Handler) requireAdmin(c *gin.Context) {
	if !h.checkPassword(headerPassword(c)) {
		h.writeError(c, ErrUnauthorized)
		return
	}
	c.Next()
}
