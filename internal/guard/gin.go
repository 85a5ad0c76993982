package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenanceManagement/internal/session"
)

// ProviderFunc resolves the session of a request.
type ProviderFunc func(c *gin.Context) session.Provider

// redirectNavigator turns a denial into an HTTP redirect and stops the chain.
type redirectNavigator struct {
	c *gin.Context
}

func (n redirectNavigator) Navigate(path string) {
	n.c.Redirect(http.StatusSeeOther, path)
	n.c.Abort()
}

// Middleware runs g before the handlers of a protected route.
func Middleware(g Guard, provider ProviderFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.CanActivate(provider(c), redirectNavigator{c: c}) {
			return
		}
		c.Next()
	}
}
