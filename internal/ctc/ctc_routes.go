package ctc

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
	ctc := r.Group("/ctc")
	ctc.Use(middleware.AuthMiddleware())
	{
		ctc.POST("/batch",
			middleware.RBACAuthorize(rbacService, "ctc", "create"),
			middleware.Idempotency(rdb),
			handler.CreateBatch,
		)
		ctc.POST("/:id", middleware.RBACAuthorize(rbacService, "ctc", "create"), handler.Create)
		ctc.GET("/:id", middleware.RBACAuthorize(rbacService, "ctc", "read"), handler.GetAllByEmployee)
		ctc.GET("/:id/detail", middleware.RBACAuthorize(rbacService, "ctc", "read"), handler.GetByID)
		ctc.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "ctc", "approve"), handler.Approve)
		ctc.POST("/:id/approve-latest", middleware.RBACAuthorize(rbacService, "ctc", "approve"), handler.ApproveLatestPending)
		ctc.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "ctc", "approve"), handler.SetStatus)
	}
}
