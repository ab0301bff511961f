package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	Assign(ctx context.Context, req AssignRequest) (*Response, error)
	ListByUser(ctx context.Context, userID string) ([]ListItem, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Remove(ctx context.Context, id string) error
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, role UserRole) error
	FindByID(ctx context.Context, id int64) (*UserRole, error)
	FindByUserAndOrg(ctx context.Context, userID, orgID int64) (*UserRole, error)
	ListByUser(ctx context.Context, userID int64) ([]ListItem, error)
	Update(ctx context.Context, role UserRole) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// ListItem is a role assignment joined with the organization name.
type ListItem struct {
	UserRole
	OrganizationName string `json:"organization_name"`
}

type AssignRequest struct {
	UserID         string            `json:"user_id"`
	OrganizationID string            `json:"organization_id"`
	Role           string            `json:"role"`
	Permissions    datatypes.JSONMap `json:"permissions"`
}

type UpdateRequest struct {
	Role        *string           `json:"role,omitempty"`
	Permissions datatypes.JSONMap `json:"permissions,omitempty"`
}

type Response struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	OrganizationID string            `json:"organization_id"`
	Role           string            `json:"role"`
	Permissions    datatypes.JSONMap `json:"permissions"`
	CreatedAt      time.Time         `json:"created_at"`
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidAssignment   = errors.New("invalid_assignment")
	ErrNotFound            = errors.New("role_assignment_not_found")
	ErrAlreadyAssigned     = errors.New("role_already_assigned")
)
