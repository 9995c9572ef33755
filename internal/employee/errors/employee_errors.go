package employeeerrors

import (
	"net/http"

	"paydesk/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee profile not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already in use",
		http.StatusConflict,
	)
)
