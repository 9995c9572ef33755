package ctc

import (
	"context"
	"database/sql"
	"time"

	"paydesk/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=ctc_repo.go -destination=mock/ctc_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *CTCStructure) error
	CreateAll(ctx context.Context, records []*CTCStructure) error
	FindByID(ctx context.Context, id string) (*CTCStructure, error)
	FindAllByProfile(ctx context.Context, profileID string) ([]CTCStructure, error)
	FindApprovedByProfile(ctx context.Context, profileID string) ([]CTCStructure, error)
	FindLatestApprovedByProfile(ctx context.Context, profileID string) (*CTCStructure, error)
	FindLatestNonApprovedByProfile(ctx context.Context, profileID string) (*CTCStructure, error)
	HasYearConflict(ctx context.Context, profileID string, year int, excludeID *string) (bool, error)
	HasOverlap(ctx context.Context, profileID string, from, to time.Time, excludeID *string) (bool, error)
	Update(ctx context.Context, record *CTCStructure) error
	UpdateStatuses(ctx context.Context, ids []uuid.UUID, status Status) error
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
// validator reads and the status writes of one lifecycle call share a single
// transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		session := db.Session(&gorm.Session{NewDB: true})
		session.Statement.ConnPool = r.tx
		return session
	}
	return db
}

func (r *repository) Create(ctx context.Context, record *CTCStructure) error {
	return r.conn(ctx).Create(record).Error
}

func (r *repository) CreateAll(ctx context.Context, records []*CTCStructure) error {
	if len(records) == 0 {
		return nil
	}
	return r.conn(ctx).Create(records).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*CTCStructure, error) {
	var record CTCStructure
	err := r.conn(ctx).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindAllByProfile(ctx context.Context, profileID string) ([]CTCStructure, error) {
	var records []CTCStructure
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("effective_from DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindApprovedByProfile(ctx context.Context, profileID string) ([]CTCStructure, error) {
	var records []CTCStructure
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Where("status = ?", StatusApproved).
		Order("effective_from ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindLatestApprovedByProfile(ctx context.Context, profileID string) (*CTCStructure, error) {
	var record CTCStructure
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ?", StatusApproved).
		Order("effective_from DESC").
		First(&record).Error
	return &record, err
}

func (r *repository) FindLatestNonApprovedByProfile(ctx context.Context, profileID string) (*CTCStructure, error) {
	var record CTCStructure
	err := r.conn(ctx).
		Scopes(scope.Profile(profileID)).
		Where("status <> ?", StatusApproved).
		Order("effective_from DESC").
		First(&record).Error
	return &record, err
}

func (r *repository) HasYearConflict(ctx context.Context, profileID string, year int, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&CTCStructure{}).
		Scopes(scope.Profile(profileID)).
		Where("status = ?", StatusApproved).
		Where("EXTRACT(YEAR FROM effective_from) = ?", year)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// HasOverlap uses half-open interval semantics: existing.from < to AND
// existing.to > from.
func (r *repository) HasOverlap(
	ctx context.Context,
	profileID string,
	from, to time.Time,
	excludeID *string,
) (bool, error) {
	db := r.conn(ctx).
		Model(&CTCStructure{}).
		Scopes(scope.Profile(profileID)).
		Where("status = ?", StatusApproved).
		Where("effective_from < ? AND effective_to > ?", to, from)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, record *CTCStructure) error {
	return r.conn(ctx).
		Omit("Allowances", "Deductions").
		Save(record).Error
}

func (r *repository) UpdateStatuses(ctx context.Context, ids []uuid.UUID, status Status) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).
		Model(&CTCStructure{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":      status,
			"is_approved": status == StatusApproved,
		}).Error
}

// LockProfile takes a row lock on the employee profile so concurrent
// approvals for the same employee serialize; different employees proceed in
// parallel. Returns false when the profile does not exist.
func (r *repository) LockProfile(ctx context.Context, profileID string) (bool, error) {
	result := r.conn(ctx).
		Exec("SELECT id FROM employee_profiles WHERE id = ? FOR UPDATE", profileID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindProfileIDByEmployee resolves the profile anchoring an employee's
// compensation records. Returns "" when the employee has no profile.
func (r *repository) FindProfileIDByEmployee(ctx context.Context, employeeID string) (string, error) {
	var ids []string
	err := r.conn(ctx).
		Table("employee_profiles").
		Where("employee_id = ?", employeeID).
		Limit(1).
		Pluck("id::text", &ids).Error
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}
