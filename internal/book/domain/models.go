// Package domain contains persistence models for books and book settings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Book is a self-contained ledger owned by an organization. Both reference
// columns are null only inside the provisioning transaction; a committed book
// always links its base currency and root account, and the root account's
// commodity is that currency.
type Book struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrganizationID    snowflake.ID      `gorm:"column:organization_id;not null;index" json:"organization_id"`
	Name              string            `gorm:"type:text;not null" json:"name"`
	Description       string            `gorm:"type:text" json:"description"`
	FiscalYearStart   time.Time         `gorm:"column:fiscal_year_start;type:date" json:"fiscal_year_start"`
	Settings          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	DefaultCurrencyID *snowflake.ID     `gorm:"column:default_currency_id" json:"default_currency_id"`
	RootAccountID     *snowflake.ID     `gorm:"column:root_account_id" json:"root_account_id"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Book) TableName() string { return "books" }

// BookSettings is the one-to-one settings row created at provisioning time.
// AutoReadonlyDays is stored as text to match the historical schema.
type BookSettings struct {
	BookID               snowflake.ID      `gorm:"column:book_id;primaryKey" json:"book_id"`
	UseTradingAccounts   bool              `gorm:"column:use_trading_accounts;not null;default:false" json:"use_trading_accounts"`
	UseSplitActionField  bool              `gorm:"column:use_split_action_field;not null;default:false" json:"use_split_action_field"`
	AutoReadonlyDays     string            `gorm:"column:auto_readonly_days;type:text;not null;default:'0'" json:"auto_readonly_days"`
	EnableEuroSupport    bool              `gorm:"column:enable_euro_support;not null;default:false" json:"enable_euro_support"`
	AccountingPeriod     datatypes.JSONMap `gorm:"column:accounting_period;type:jsonb;not null;default:'{}'" json:"accounting_period"`
	UpdatedAt            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BookSettings) TableName() string { return "book_settings" }
