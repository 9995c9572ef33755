package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetUserRoles() ([]UserRoleRow, error)
	GetRolePermissions() ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type UserRoleRow struct {
	UserID string
	Role   string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

func (r *repository) GetUserRoles() ([]UserRoleRow, error) {
	var result []UserRoleRow
	err := r.db.
		Table("user_roles").
		Select("user_id::text AS user_id, role").
		Scan(&result).Error
	return result, err
}

func (r *repository) GetRolePermissions() ([]RolePermissionRow, error) {
	var result []RolePermissionRow
	err := r.db.
		Table("role_permissions").
		Select("role, resource, action").
		Scan(&result).Error
	return result, err
}
