package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

// Objects protected by capabilities.
const (
	ObjectOrganization = "organization"
	ObjectBook         = "book"
	ObjectAccount      = "account"
	ObjectCommodity    = "commodity"
	ObjectTax          = "tax"
	ObjectUserRole     = "user_role"
	ObjectSettings     = "settings"
)

// Actions a capability can require.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
	ErrForbidden           = errors.New("capability_denied")
	ErrNoRole              = errors.New("no_role_in_organization")
)

// Service resolves a (user, organization) pair to a capability decision.
type Service interface {
	Authorize(ctx context.Context, userID, orgID string, object, action string) error
	RoleFor(ctx context.Context, userID, orgID string) (string, error)
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Roles    userroledomain.Repository
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	roles    userroledomain.Repository
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		roles:    p.Roles,
	}
}

// Authorize enforces the capability (object, action) for userID inside
// orgID. A user without a role assignment is treated as a viewer for reads
// and denied every write; the legacy display-time viewer default never
// grants mutations.
func (s *ServiceImpl) Authorize(ctx context.Context, userID, orgID string, object, action string) error {
	parsedUser, parsedOrg, err := parsePair(userID, orgID)
	if err != nil {
		return err
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	role, err := s.roles.FindByUserAndOrg(ctx, parsedUser.Int64(), parsedOrg.Int64())
	if err != nil {
		return err
	}

	roleName := userroledomain.RoleViewer
	if role == nil {
		if action != ActionRead {
			s.log.Debug("write denied for user without role",
				zap.String("user_id", parsedUser.String()),
				zap.String("organization_id", parsedOrg.String()),
				zap.String("object", object),
				zap.String("action", action),
			)
			return ErrNoRole
		}
	} else {
		roleName = role.Role
	}

	subject := fmt.Sprintf("user:%s", parsedUser.String())
	domain := fmt.Sprintf("org:%s", parsedOrg.String())
	if err := s.ensureGrouping(subject, "role:"+roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// RoleFor returns the assigned role name, or viewer when no assignment
// exists. Display-only; never consult it for write decisions.
func (s *ServiceImpl) RoleFor(ctx context.Context, userID, orgID string) (string, error) {
	parsedUser, parsedOrg, err := parsePair(userID, orgID)
	if err != nil {
		return "", err
	}

	role, err := s.roles.FindByUserAndOrg(ctx, parsedUser.Int64(), parsedOrg.Int64())
	if err != nil {
		return "", err
	}
	if role == nil {
		return userroledomain.RoleViewer, nil
	}
	return role.Role, nil
}

func (s *ServiceImpl) ensureGrouping(subject, roleName, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func parsePair(userID, orgID string) (snowflake.ID, snowflake.ID, error) {
	parsedUser, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || parsedUser == 0 {
		return 0, 0, ErrInvalidUser
	}
	parsedOrg, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil || parsedOrg == 0 {
		return 0, 0, ErrInvalidOrganization
	}
	return parsedUser, parsedOrg, nil
}

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
