package payslip

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paydesk/internal/ctc"
	"paydesk/internal/scope"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindAllByProfile(ctx context.Context, profileID string) ([]Payslip, error)
	FindApprovedInPeriod(ctx context.Context, profileID string, year, month int) ([]Payslip, error)
	HasReleasedInPeriod(ctx context.Context, profileID string, year, month int, excludeID *string) (bool, error)
	Update(ctx context.Context, record *Payslip) error
	UpdateStatuses(ctx context.Context, ids []uuid.UUID, status ctc.Status) error
	LockProfile(ctx context.Context, profileID string) (bool, error)
	FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error)
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

// conn routes statements through the enclosing sql.Tx when present, so the
// exclusivity checks and the release write share one transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		session := db.Session(&gorm.Session{NewDB: true})
		session.Statement.ConnPool = r.tx
		return session
	}
	return db
}

func (r *repository) Create(ctx context.Context, record *Payslip) error {
	return r.conn(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var record Payslip
	err := r.conn(ctx).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindAllByProfile(ctx context.Context, profileID string) ([]Payslip, error) {
	var records []Payslip
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Order("year DESC, month DESC, created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindApprovedInPeriod(
	ctx context.Context,
	profileID string,
	year, month int,
) ([]Payslip, error) {
	var records []Payslip
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Where("year = ? AND month = ? AND status = ?", year, month, ctc.StatusApproved).
		Find(&records).Error
	return records, err
}

func (r *repository) HasReleasedInPeriod(
	ctx context.Context,
	profileID string,
	year, month int,
	excludeID *string,
) (bool, error) {
	query := r.conn(ctx).
		Model(&Payslip{}).
		Scopes(scope.Profile(profileID)).
		Where("year = ? AND month = ? AND is_released = TRUE", year, month)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, record *Payslip) error {
	return r.conn(ctx).
		Omit("Allowances", "Deductions").
		Save(record).Error
}

func (r *repository) UpdateStatuses(ctx context.Context, ids []uuid.UUID, status ctc.Status) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).
		Model(&Payslip{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status}).Error
}

// LockProfile serializes conflicting releases per employee with a row lock
// on the profile record.
func (r *repository) LockProfile(ctx context.Context, profileID string) (bool, error) {
	var id string
	err := r.conn(ctx).
		Raw("SELECT id::text FROM employee_profiles WHERE id = ? FOR UPDATE", profileID).
		Scan(&id).Error
	if err != nil {
		return false, err
	}
	return id != "", nil
}

func (r *repository) FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error) {
	var profileID string
	err := r.conn(ctx).
		Table("employee_profiles").
		Where("employee_id = ?", employeeID).
		Limit(1).
		Pluck("id::text", &profileID).Error
	if err != nil {
		return "", err
	}
	return profileID, nil
}
