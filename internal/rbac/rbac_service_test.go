package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"paydesk/internal/rbac/infra"
)

type fakeRepo struct {
	userRoles       []UserRoleRow
	rolePermissions []RolePermissionRow
	err             error
}

func (f *fakeRepo) GetUserRoles() ([]UserRoleRow, error) {
	return f.userRoles, f.err
}

func (f *fakeRepo) GetRolePermissions() ([]RolePermissionRow, error) {
	return f.rolePermissions, f.err
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()

	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	return NewService(repo, enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRepo{
		userRoles: []UserRoleRow{
			{UserID: "user-1", Role: RoleReviewer},
		},
		rolePermissions: []RolePermissionRow{
			{Role: RoleReviewer, Resource: "ctc", Action: "approve"},
		},
	}
	service := newTestService(t, repo)

	allowed, err := service.Enforce("user-1", "ctc", "approve")
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.Enforce("user-1", "payslip", "release")
	assert.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.Enforce("user-2", "ctc", "approve")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_Enforce_PicksUpRoleChanges(t *testing.T) {
	repo := &fakeRepo{
		rolePermissions: []RolePermissionRow{
			{Role: RoleReleaser, Resource: "payslip", Action: "release"},
		},
	}
	service := newTestService(t, repo)

	allowed, err := service.Enforce("user-1", "payslip", "release")
	assert.NoError(t, err)
	assert.False(t, allowed)

	// grant the role between calls; no reload endpoint needed
	repo.userRoles = []UserRoleRow{{UserID: "user-1", Role: RoleReleaser}}

	allowed, err = service.Enforce("user-1", "payslip", "release")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRBACService_Enforce_RepoFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	service := newTestService(t, repo)

	allowed, err := service.Enforce("user-1", "ctc", "approve")
	assert.Error(t, err)
	assert.False(t, allowed)
}
