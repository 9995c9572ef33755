package ctc

import (
	"net/http"

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

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorID(c *gin.Context) string {
	return c.GetString("user_id_validated")
}

// Create registers a new pending CTC structure for the employee in the path.
func (h *Handler) Create(c *gin.Context) {
	var req CreateCTCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.Param("id"), actorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// CreateBatch applies one parameter set across many employees. The endpoint
// answers 200 even when individual rows fail; callers inspect per-row status.
func (h *Handler) CreateBatch(c *gin.Context) {
	var req BatchCreateCTCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	results, err := h.service.CreateBatch(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, results, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveLatestPending(c *gin.Context) {
	resp, err := h.service.ApproveLatestPending(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetStatus(c *gin.Context) {
	resp, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), actorID(c), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllByEmployee(c *gin.Context) {
	resp, err := h.service.GetAllByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
