package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sherubtse/feedback-portal/internal/app/models"
	"github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
)

// IdentityKey is the gin context key holding the resolved login identity.
const IdentityKey = "identity"

// AuthMiddleware gates routes on the session cookie.
type AuthMiddleware struct {
	sessions   *services.SessionService
	renderer   view.Renderer
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(sessions *services.SessionService, renderer view.Renderer, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		renderer:   renderer,
		cookieName: cookieName,
	}
}

// Authenticated resolves the session cookie and injects the identity into the
// request context. Requests without a live session are redirected to the
// login page, never shown an error.
func (m *AuthMiddleware) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		identity, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RoleRequired rejects identities whose stored role differs from the
// required one with a 403 page. It must run after Authenticated.
func (m *AuthMiddleware) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil || identity.Role != role {
			m.renderer.Render(c, http.StatusForbidden, "error.gohtml", view.Data{
				"title":   "Access Denied",
				"message": "You do not have permission to view this page.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity injected by Authenticated, or nil.
func CurrentIdentity(c *gin.Context) *models.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
