package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/userrole/domain"
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

func (r *repository) Create(ctx context.Context, role domain.UserRole) error {
	return r.db.WithContext(ctx).Create(&role).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.UserRole, error) {
	var role domain.UserRole
	err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) FindByUserAndOrg(ctx context.Context, userID, orgID int64) (*domain.UserRole, error) {
	var role domain.UserRole
	err := r.db.WithContext(ctx).
		First(&role, "user_id = ? AND organization_id = ?", userID, orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]domain.ListItem, error) {
	var items []domain.ListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT ur.*, o.name AS organization_name
		 FROM user_roles ur
		 JOIN organizations o ON o.id = ur.organization_id
		 WHERE ur.user_id = ?
		 ORDER BY ur.created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, role domain.UserRole) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE user_roles
		 SET role = ?, permissions = ?, updated_at = ?
		 WHERE id = ?`,
		role.Role,
		role.Permissions,
		role.UpdatedAt,
		role.ID,
	).Error
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM user_roles WHERE id = ?`, id)
	return result.RowsAffected, result.Error
}
