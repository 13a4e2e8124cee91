package service

import (
	"context"
	"fmt"
	"log/slog"

	domainverify "github.com/uchiverify/uchiverify/internal/domain/verify"
	"github.com/uchiverify/uchiverify/internal/ports"
)

// Grant step identifiers carried on GrantError for metrics and alerts.
const (
	GrantStepListRoles  = "list_roles"
	GrantStepCreateRole = "create_role"
	GrantStepAssignRole = "assign_role"
)

// GrantError reports which step of the grant failed.
type GrantError struct {
	Step string
	Err  error
}

func (e *GrantError) Error() string {
	return fmt.Sprintf("role grant failed at %s: %v", e.Step, e.Err)
}

func (e *GrantError) Unwrap() error { return e.Err }

// RoleGranter is the grant side effect as seen by the verify service.
type RoleGranter interface {
	Grant(ctx context.Context, guildID, userID string) error
}

// RoleGrantServiceOptions groups dependencies for RoleGrantService.
type RoleGrantServiceOptions struct {
	API      ports.RoleAPI
	RoleName string
	Logger   *slog.Logger
}

// RoleGrantService attaches the verified-member role, creating it on
// first use. Re-running a grant for a member who already holds the
// role is a no-op on the platform side, so the whole operation is
// safe to repeat.
type RoleGrantService struct {
	api      ports.RoleAPI
	roleName string
	log      *slog.Logger
}

var _ RoleGranter = (*RoleGrantService)(nil)

// NewRoleGrantService constructs a new RoleGrantService.
func NewRoleGrantService(opts RoleGrantServiceOptions) *RoleGrantService {
	return &RoleGrantService{
		api:      opts.API,
		roleName: opts.RoleName,
		log:      opts.Logger,
	}
}

func (s *RoleGrantService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Grant ensures the verified role exists in the guild and attaches it
// to the member. Roles are matched by exact name.
func (s *RoleGrantService) Grant(ctx context.Context, guildID, userID string) error {
	role, err := s.ensureRole(ctx, guildID)
	if err != nil {
		return err
	}

	target := ports.GrantTarget{GuildID: guildID, UserID: userID, RoleID: role.ID}
	if err := s.api.AddMemberRole(ctx, target); err != nil {
		return &GrantError{Step: GrantStepAssignRole, Err: err}
	}

	s.logger().Info("role granted",
		"guild_id", guildID,
		"user_id", userID,
		"role_id", role.ID)
	return nil
}

func (s *RoleGrantService) ensureRole(ctx context.Context, guildID string) (domainverify.Role, error) {
	roles, err := s.api.ListRoles(ctx, guildID)
	if err != nil {
		return domainverify.Role{}, &GrantError{Step: GrantStepListRoles, Err: err}
	}

	for _, role := range roles {
		if role.Name == s.roleName {
			return role, nil
		}
	}

	role, err := s.api.CreateRole(ctx, guildID, s.roleName)
	if err != nil {
		return domainverify.Role{}, &GrantError{Step: GrantStepCreateRole, Err: err}
	}

	s.logger().Info("verified role created", "guild_id", guildID, "role_id", role.ID)
	return role, nil
}
