package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Create(&org).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) Update(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE organizations
		 SET name = ?, tax_id = ?, address = ?, email = ?, phone = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		org.Name,
		org.TaxID,
		org.Address,
		org.Email,
		org.Phone,
		org.IsActive,
		org.UpdatedAt,
		org.ID,
	).Error
}

func (r *repository) ListUsers(ctx context.Context, orgID snowflake.ID) ([]domain.OrganizationUserItem, error) {
	var items []domain.OrganizationUserItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT u.id AS user_id, u.email, u.first_name, u.last_name, ur.role
		 FROM user_roles ur
		 JOIN users u ON u.id = ur.user_id
		 WHERE ur.organization_id = ?
		 ORDER BY u.email ASC`,
		orgID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
