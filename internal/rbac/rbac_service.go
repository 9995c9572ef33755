package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Built-in roles of the approval workflow. Creators submit compensation
// records, reviewers approve or reject them, releasers publish payslips.
const (
	RoleAdmin    = "admin"
	RoleCreator  = "creator"
	RoleReviewer = "reviewer"
	RoleReleaser = "releaser"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(userID, resource, action string) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   zap.L().Named("rbac.service"),
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles()
	if err != nil {
		return err
	}
	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.Role); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

// Enforce re-reads policy on every call so role changes take effect without
// a restart. Policy tables are tiny; correctness wins over caching here.
func (s *service) Enforce(userID, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	return s.enforcer.Enforce(userID, resource, action)
}
