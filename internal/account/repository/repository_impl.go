package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/account/domain"
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

func (r *repository) Create(ctx context.Context, account domain.Account) error {
	return r.db.WithContext(ctx).Create(&account).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// ListByBook orders by code ascending with NULL or empty codes after
// populated ones, then by name. Comparison is byte-wise on every dialect:
// the postgres schema pins COLLATE "C" on code and name, sqlite's default
// BINARY collation already is.
func (r *repository) ListByBook(ctx context.Context, bookID int64) ([]domain.Account, error) {
	var items []domain.Account
	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM accounts
		 WHERE book_id = ?
		 ORDER BY CASE WHEN code IS NULL OR code = '' THEN 1 ELSE 0 END ASC,
		          code ASC,
		          name ASC`,
		bookID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CommodityInBook(ctx context.Context, commodityID, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("commodities").
		Where("id = ? AND book_id = ?", commodityID, bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
