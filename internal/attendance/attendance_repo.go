package attendance

import (
	"context"

	"gorm.io/gorm"

	"paydesk/internal/scope"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, record *Absence) error
	CountLopDays(ctx context.Context, profileID string, year, month int) (int64, error)
	FindByProfileAndPeriod(ctx context.Context, profileID string, year, month int) ([]Absence, error)
	FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *Absence) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) CountLopDays(ctx context.Context, profileID string, year, month int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Scopes(scope.Profile(profileID)).
		Where("EXTRACT(YEAR FROM date) = ? AND EXTRACT(MONTH FROM date) = ?", year, month).
		Count(&count).Error
	return count, err
}

func (r *repository) FindByProfileAndPeriod(
	ctx context.Context,
	profileID string,
	year, month int,
) ([]Absence, error) {
	var records []Absence
	err := r.db.WithContext(ctx).
		Scopes(scope.Profile(profileID)).
		Where("EXTRACT(YEAR FROM date) = ? AND EXTRACT(MONTH FROM date) = ?", year, month).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error) {
	var profileID string
	err := r.db.WithContext(ctx).
		Table("employee_profiles").
		Where("employee_id = ?", employeeID).
		Limit(1).
		Pluck("id::text", &profileID).Error
	if err != nil {
		return "", err
	}
	return profileID, nil
}
