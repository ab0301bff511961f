package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/organization/domain"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		TaxID:     strings.TrimSpace(req.TaxID),
		Address:   strings.TrimSpace(req.Address),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	return toResponse(org), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	org, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(*org), nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	org, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.TaxID != nil {
		org.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Address != nil {
		org.Address = strings.TrimSpace(*req.Address)
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		org.Phone = strings.TrimSpace(*req.Phone)
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, err
	}
	return toResponse(*org), nil
}

// Deactivate soft-deletes the organization. Books and role assignments keep
// referencing the row.
func (s *service) Deactivate(ctx context.Context, id string) error {
	org, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	org.IsActive = false
	org.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, *org)
}

func (s *service) ListUsers(ctx context.Context, id string) ([]domain.OrganizationUserItem, error) {
	org, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx, org.ID)
}

func (s *service) find(ctx context.Context, id string) (*domain.Organization, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return nil, domain.ErrInvalidOrganization
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func toResponse(org domain.Organization) *domain.Response {
	return &domain.Response{
		ID:       org.ID.String(),
		Name:     org.Name,
		TaxID:    org.TaxID,
		Address:  org.Address,
		Email:    org.Email,
		Phone:    org.Phone,
		IsActive: org.IsActive,
	}
}
