package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"paydesk/internal/attendance"
	attendanceerrors "paydesk/internal/attendance/errors"
)

type fakeAttendanceRepository struct {
	createFn                  func(ctx context.Context, record *attendance.Absence) error
	countLopDaysFn            func(ctx context.Context, profileID string, year, month int) (int64, error)
	findByProfileAndPeriodFn  func(ctx context.Context, profileID string, year, month int) ([]attendance.Absence, error)
	findProfileIDByEmployeeFn func(ctx context.Context, employeeID string) (string, error)
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, record *attendance.Absence) error {
	if f.createFn != nil {
		return f.createFn(ctx, record)
	}
	return nil
}

func (f *fakeAttendanceRepository) CountLopDays(ctx context.Context, profileID string, year, month int) (int64, error) {
	if f.countLopDaysFn != nil {
		return f.countLopDaysFn(ctx, profileID, year, month)
	}
	return 0, nil
}

func (f *fakeAttendanceRepository) FindByProfileAndPeriod(ctx context.Context, profileID string, year, month int) ([]attendance.Absence, error) {
	if f.findByProfileAndPeriodFn != nil {
		return f.findByProfileAndPeriodFn(ctx, profileID, year, month)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error) {
	if f.findProfileIDByEmployeeFn != nil {
		return f.findProfileIDByEmployeeFn(ctx, employeeID)
	}
	return "", nil
}

func TestAttendanceService_RecordAbsence(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	profileID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.findProfileIDByEmployeeFn = func(ctx context.Context, eid string) (string, error) {
			return profileID, nil
		}

		var created *attendance.Absence
		repo.createFn = func(ctx context.Context, record *attendance.Absence) error {
			created = record
			return nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.RecordAbsence(ctx, actorID, attendance.RecordAbsenceRequest{
			EmployeeID: employeeID,
			Date:       "2025-09-15",
			Reason:     "unpaid leave",
		})

		assert.NoError(t, err)
		assert.Equal(t, profileID, created.EmployeeProfileID.String())
		assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), created.Date)
		assert.Equal(t, "2025-09-15", resp.Date)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := attendance.NewService(&fakeAttendanceRepository{})

		_, err := svc.RecordAbsence(ctx, actorID, attendance.RecordAbsenceRequest{
			EmployeeID: employeeID,
			Date:       "15/09/2025",
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateFormat)
	})

	t.Run("profile missing", func(t *testing.T) {
		svc := attendance.NewService(&fakeAttendanceRepository{})

		_, err := svc.RecordAbsence(ctx, actorID, attendance.RecordAbsenceRequest{
			EmployeeID: employeeID,
			Date:       "2025-09-15",
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrProfileNotFound)
	})
}

func TestAttendanceService_LopDays(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New().String()

	repo := &fakeAttendanceRepository{}
	repo.countLopDaysFn = func(ctx context.Context, pid string, year, month int) (int64, error) {
		assert.Equal(t, profileID, pid)
		assert.Equal(t, 2025, year)
		assert.Equal(t, 9, month)
		return 3, nil
	}

	svc := attendance.NewService(repo)
	days, err := svc.LopDays(ctx, profileID, 2025, 9)

	assert.NoError(t, err)
	assert.Equal(t, float64(3), days)
}

func TestAttendanceService_GetLopSummary(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	profileID := uuid.New().String()

	repo := &fakeAttendanceRepository{}
	repo.findProfileIDByEmployeeFn = func(ctx context.Context, eid string) (string, error) {
		return profileID, nil
	}
	repo.countLopDaysFn = func(ctx context.Context, pid string, year, month int) (int64, error) {
		return 2, nil
	}

	svc := attendance.NewService(repo)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.GetLopSummary(ctx, employeeID, 2025, 9)

		assert.NoError(t, err)
		assert.Equal(t, float64(2), resp.LopDays)
		assert.Equal(t, profileID, resp.EmployeeProfileID)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := svc.GetLopSummary(ctx, employeeID, 2025, 0)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
	})
}
