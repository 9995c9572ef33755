package ctcerrors

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
	ErrInvalidCTCID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid ctc id",
		http.StatusBadRequest,
	)
	ErrBasicNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"basic must be greater than zero",
		http.StatusBadRequest,
	)
	ErrHRANegative = apperror.New(
		apperror.CodeInvalidInput,
		"hra must not be negative",
		http.StatusBadRequest,
	)
	ErrHRATooHigh = apperror.New(
		apperror.CodeInvalidInput,
		"hra must not exceed half of basic",
		http.StatusBadRequest,
	)
	ErrDuplicateAllowanceLabel = apperror.New(
		apperror.CodeInvalidInput,
		"allowance labels must be unique",
		http.StatusBadRequest,
	)
	ErrDuplicateDeductionLabel = apperror.New(
		apperror.CodeInvalidInput,
		"deduction labels must be unique",
		http.StatusBadRequest,
	)
	ErrEffectiveFromRequired = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from is required",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status, expected PENDING, APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrCTCNotFound = apperror.New(
		apperror.CodeNotFound,
		"ctc structure not found",
		http.StatusNotFound,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee profile not found",
		http.StatusNotFound,
	)
	ErrNoPendingCTC = apperror.New(
		apperror.CodeNotFound,
		"no pending ctc structure for this employee",
		http.StatusNotFound,
	)
	ErrAlreadyApproved = apperror.New(
		apperror.CodeInvalidState,
		"ctc structure is already approved",
		http.StatusConflict,
	)
	ErrYearAlreadyClaimed = apperror.New(
		apperror.CodeConflict,
		"an approved ctc structure already exists for this year",
		http.StatusConflict,
	)
	ErrPeriodOverlap = apperror.New(
		apperror.CodeConflict,
		"an approved ctc structure overlaps this validity window",
		http.StatusConflict,
	)
)
