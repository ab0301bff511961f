package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/book/domain"
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

func (r *repository) CreateBook(ctx context.Context, book domain.Book) error {
	return r.db.WithContext(ctx).Create(&book).Error
}

// LinkBook resolves the circular reference once the commodity and root
// account exist for the book created earlier in the same transaction.
func (r *repository) LinkBook(ctx context.Context, bookID, currencyID, rootAccountID int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE books
		 SET default_currency_id = ?, root_account_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		currencyID,
		rootAccountID,
		bookID,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID int64) ([]domain.Book, error) {
	var items []domain.Book
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) OrganizationActive(ctx context.Context, orgID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("organizations").
		Where("id = ? AND is_active = ?", orgID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateSettings(ctx context.Context, settings domain.BookSettings) error {
	return r.db.WithContext(ctx).Create(&settings).Error
}

func (r *repository) FindSettings(ctx context.Context, bookID int64) (*domain.BookSettings, error) {
	var settings domain.BookSettings
	err := r.db.WithContext(ctx).First(&settings, "book_id = ?", bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *repository) UpdateSettings(ctx context.Context, settings domain.BookSettings) error {
	return r.db.WithContext(ctx).
		Model(&domain.BookSettings{}).
		Where("book_id = ?", settings.BookID).
		Updates(map[string]interface{}{
			"use_trading_accounts":   settings.UseTradingAccounts,
			"use_split_action_field": settings.UseSplitActionField,
			"auto_readonly_days":     settings.AutoReadonlyDays,
			"enable_euro_support":    settings.EnableEuroSupport,
			"accounting_period":      settings.AccountingPeriod,
			"updated_at":             settings.UpdatedAt,
		}).Error
}
