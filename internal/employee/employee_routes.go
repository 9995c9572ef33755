package employee

import (
	"paydesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetOptions)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetByID)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "create"), handler.Create)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employee", "delete"), handler.Delete)
	}
}
