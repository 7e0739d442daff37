package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
)

// PermissionChecker answers role based permission checks
type PermissionChecker interface {
	Allowed(role, obj, act string) bool
}

// RequirePermission allows the request only if the caller's role may perform act on obj.
// It must run after RequireAuth.
func RequirePermission(checker PermissionChecker, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !checker.Allowed(string(role), obj, act) {
			apierrors.Forbidden(c, "Acesso negado para o papel "+string(role))
			c.Abort()
			return
		}

		c.Next()
	}
}
