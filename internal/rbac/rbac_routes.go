package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the policy check behind auth plus an admin-only gate.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth, adminOnly gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth, adminOnly)
	{
		group.POST("/enforce", handler.Enforce)
	}
}
