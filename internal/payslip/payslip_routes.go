package payslip

import (
	"paydesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware())
	{
		payslips.POST("",
			middleware.RBACAuthorize(rbacService, "payslip", "create"),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
		payslips.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetAllByEmployee)
		payslips.GET("/:id", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByID)
		payslips.GET("/:id/pdf", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.DownloadPDF)
		payslips.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.Approve)
		payslips.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.Reject)
		payslips.POST("/:id/release", middleware.RBACAuthorize(rbacService, "payslip", "release"), handler.Release)
		payslips.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.SetStatus)
	}
}
