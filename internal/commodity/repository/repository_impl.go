package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/commodity/domain"
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

func (r *repository) Create(ctx context.Context, commodity domain.Commodity) error {
	return r.db.WithContext(ctx).Create(&commodity).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.Commodity, error) {
	var commodity domain.Commodity
	err := r.db.WithContext(ctx).First(&commodity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commodity, nil
}

func (r *repository) ListByBook(ctx context.Context, bookID int64) ([]domain.Commodity, error) {
	var items []domain.Commodity
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("mnemonic ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("books").
		Where("id = ?", bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
