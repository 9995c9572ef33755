package rbac

import (
	"net/http"
	"strings"

	"paydesk/internal/shared/apperror"
	"paydesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers a permission probe. Exposed so the frontend can hide
// actions the signed-in user is not allowed to perform.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload", details)
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req.UserID, req.Resource, req.Action)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "policy check failed", nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// ReloadPolicy forces a fresh read of the policy tables.
func (h *Handler) ReloadPolicy(c *gin.Context) {
	if err := h.service.LoadPolicy(); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "policy reload failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reloaded": true}, nil)
}
