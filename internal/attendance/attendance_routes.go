package attendance

import (
	"paydesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.POST("/absences", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.RecordAbsence)
		attendance.GET("/absences/:id", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetAbsences)
		attendance.GET("/lop/:id", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetLopSummary)
	}
}
