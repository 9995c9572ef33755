package attendanceerrors

import (
	"net/http"

	"paydesk/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pay period, month must be 1-12",
		http.StatusBadRequest,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee profile not found",
		http.StatusNotFound,
	)
)
