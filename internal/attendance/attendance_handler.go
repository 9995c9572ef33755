package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	attendanceerrors "paydesk/internal/attendance/errors"
	"paydesk/internal/shared/apperror"
	"paydesk/internal/shared/response"
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

func (h *Handler) RecordAbsence(c *gin.Context) {
	var req RecordAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.RecordAbsence(c.Request.Context(), c.GetString("user_id_validated"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAbsences(c *gin.Context) {
	year, month, err := periodQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetAbsences(c.Request.Context(), c.Param("id"), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetLopSummary(c *gin.Context) {
	year, month, err := periodQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetLopSummary(c.Request.Context(), c.Param("id"), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func periodQuery(c *gin.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, attendanceerrors.ErrInvalidPeriod
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, attendanceerrors.ErrInvalidPeriod
	}
	return year, month, nil
}
