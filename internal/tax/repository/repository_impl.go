package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/tax/domain"
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

func (r *repository) CreateTable(ctx context.Context, table domain.TaxTable) error {
	return r.db.WithContext(ctx).Create(&table).Error
}

func (r *repository) CreateEntry(ctx context.Context, entry domain.TaxTableEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *repository) FindTable(ctx context.Context, id int64) (*domain.TaxTable, error) {
	var table domain.TaxTable
	err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *repository) ListByBook(ctx context.Context, bookID int64) ([]domain.TaxTable, error) {
	var items []domain.TaxTable
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND active = ?", bookID, true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListEntries(ctx context.Context, tableID int64) ([]domain.EntryItem, error) {
	var items []domain.EntryItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT tte.*, a.name AS account_name
		 FROM tax_table_entries tte
		 JOIN accounts a ON a.id = tte.account_id
		 WHERE tte.tax_table_id = ?
		 ORDER BY tte.sort_order ASC, tte.id ASC`,
		tableID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) AccountInBook(ctx context.Context, accountID, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("accounts").
		Where("id = ? AND book_id = ?", accountID, bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
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
