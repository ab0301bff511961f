package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// OrganizationUserItem is a user row joined with the role held in the
// organization.
type OrganizationUserItem struct {
	UserID    snowflake.ID `json:"user_id"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Role      string       `json:"role"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	Update(ctx context.Context, org Organization) error
	ListUsers(ctx context.Context, orgID snowflake.ID) ([]OrganizationUserItem, error)
}
