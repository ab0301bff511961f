package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/userrole/domain"
	dbpkg "github.com/smallbiznis/booksd/pkg/db"
	"gorm.io/datatypes"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{repo: repo, genID: genID}
}

func (s *service) Assign(ctx context.Context, req domain.AssignRequest) (*domain.Response, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	roleName := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.ValidRole(roleName) {
		return nil, domain.ErrInvalidRole
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = datatypes.JSONMap{}
	}

	now := time.Now().UTC()
	role := domain.UserRole{
		ID:             s.genID.Generate(),
		UserID:         userID,
		OrganizationID: orgID,
		Role:           roleName,
		Permissions:    permissions,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, err
	}

	return toResponse(role), nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.ListItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, id.Int64())
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	role, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		roleName := strings.ToLower(strings.TrimSpace(*req.Role))
		if !domain.ValidRole(roleName) {
			return nil, domain.ErrInvalidRole
		}
		role.Role = roleName
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	role.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *role); err != nil {
		return nil, err
	}
	return toResponse(*role), nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	role, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, role.ID.Int64())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *service) find(ctx context.Context, id string) (*domain.UserRole, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return nil, domain.ErrInvalidAssignment
	}
	assignmentID, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidAssignment
	}

	role, err := s.repo.FindByID(ctx, assignmentID.Int64())
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func toResponse(role domain.UserRole) *domain.Response {
	return &domain.Response{
		ID:             role.ID.String(),
		UserID:         role.UserID.String(),
		OrganizationID: role.OrganizationID.String(),
		Role:           role.Role,
		Permissions:    role.Permissions,
		CreatedAt:      role.CreatedAt,
	}
}
