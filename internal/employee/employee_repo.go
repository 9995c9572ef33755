package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindProfileByEmployeeID(ctx context.Context, employeeID string) (*EmployeeProfile, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Preload("Profile").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindProfileByEmployeeID(ctx context.Context, employeeID string) (*EmployeeProfile, error) {
	var profile EmployeeProfile
	err := r.db.WithContext(ctx).
		First(&profile, "employee_id = ?", employeeID).Error
	return &profile, err
}

// Delete removes the employee; the profile and its compensation and payslip
// children go with it through the FK cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("Profile").
		Delete(&Employee{}, "id = ?", id).Error
}
