package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	attendanceerrors "paydesk/internal/attendance/errors"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	RecordAbsence(ctx context.Context, actorID string, req RecordAbsenceRequest) (AbsenceResponse, error)
	GetAbsences(ctx context.Context, employeeID string, year, month int) ([]AbsenceResponse, error)
	GetLopSummary(ctx context.Context, employeeID string, year, month int) (LopSummaryResponse, error)

	// LopDays satisfies the payslip generator's fallback lookup.
	LopDays(ctx context.Context, profileID string, year, month int) (float64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) RecordAbsence(
	ctx context.Context,
	actorID string,
	req RecordAbsenceRequest,
) (AbsenceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AbsenceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return AbsenceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AbsenceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if profileID == "" {
		return AbsenceResponse{}, attendanceerrors.ErrProfileNotFound
	}

	record := &Absence{
		ID:                uuid.New(),
		EmployeeProfileID: uuid.MustParse(profileID),
		Date:              date,
		Reason:            req.Reason,
		RecordedByUserID:  actorUUID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("record absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("absence recorded",
		zap.String("employee_profile_id", profileID),
		zap.String("date", req.Date),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAbsences(
	ctx context.Context,
	employeeID string,
	year, month int,
) ([]AbsenceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	if month < 1 || month > 12 {
		return nil, attendanceerrors.ErrInvalidPeriod
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if profileID == "" {
		return nil, attendanceerrors.ErrProfileNotFound
	}

	records, err := s.repo.FindByProfileAndPeriod(ctx, profileID, year, month)
	if err != nil {
		return nil, err
	}

	resp := make([]AbsenceResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp, nil
}

func (s *service) GetLopSummary(
	ctx context.Context,
	employeeID string,
	year, month int,
) (LopSummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return LopSummaryResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	if month < 1 || month > 12 {
		return LopSummaryResponse{}, attendanceerrors.ErrInvalidPeriod
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return LopSummaryResponse{}, err
	}
	if profileID == "" {
		return LopSummaryResponse{}, attendanceerrors.ErrProfileNotFound
	}

	days, err := s.LopDays(ctx, profileID, year, month)
	if err != nil {
		return LopSummaryResponse{}, err
	}

	return LopSummaryResponse{
		EmployeeProfileID: profileID,
		Year:              year,
		Month:             month,
		LopDays:           days,
	}, nil
}

func (s *service) LopDays(ctx context.Context, profileID string, year, month int) (float64, error) {
	count, err := s.repo.CountLopDays(ctx, profileID, year, month)
	if err != nil {
		return 0, err
	}
	return float64(count), nil
}

func mapToResponse(record Absence) AbsenceResponse {
	return AbsenceResponse{
		ID:                record.ID.String(),
		EmployeeProfileID: record.EmployeeProfileID.String(),
		Date:              record.Date.Format("2006-01-02"),
		Reason:            record.Reason,
	}
}
