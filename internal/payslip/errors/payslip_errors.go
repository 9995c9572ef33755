package paysliperrors

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
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pay period, month must be 1-12 and year 2000-2100",
		http.StatusBadRequest,
	)
	ErrInvalidLopDays = apperror.New(
		apperror.CodeInvalidInput,
		"lop days must be between 0 and 31",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status, expected PENDING, APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee profile not found",
		http.StatusNotFound,
	)
	ErrNoApprovedCTC = apperror.New(
		apperror.CodePreconditionFailed,
		"no approved ctc structure exists for this employee",
		http.StatusPreconditionFailed,
	)
	ErrPeriodAlreadyReleased = apperror.New(
		apperror.CodeConflict,
		"another payslip for this period is already released",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidInput,
		"payslip must be approved before release",
		http.StatusUnprocessableEntity,
	)
	ErrReleasedImmutable = apperror.New(
		apperror.CodeInvalidState,
		"released payslips cannot be modified",
		http.StatusConflict,
	)
)
