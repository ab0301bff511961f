// Package domain contains persistence models for tax tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryTypePercent is the only entry type currently in use.
const EntryTypePercent = "PERCENT"

// TaxTable is a named, book-scoped container of rate components. Active is a
// soft-delete flag.
type TaxTable struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	BookID    snowflake.ID `gorm:"column:book_id;not null;index" json:"book_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	IsDefault bool         `gorm:"column:is_default;not null;default:false" json:"is_default"`
	Active    bool         `gorm:"not null" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TaxTable) TableName() string { return "tax_tables" }

// TaxTableEntry is one rate component. The rate is the exact fraction
// AmountNum/AmountDenom; no decimal form is ever stored.
type TaxTableEntry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TaxTableID  snowflake.ID `gorm:"column:tax_table_id;not null;index" json:"tax_table_id"`
	AccountID   snowflake.ID `gorm:"column:account_id;not null" json:"account_id"`
	AmountNum   int64        `gorm:"column:amount_num;not null" json:"amount_num"`
	AmountDenom int64        `gorm:"column:amount_denom;not null;default:100" json:"amount_denom"`
	Type        string       `gorm:"type:text;not null;default:'PERCENT'" json:"type"`
	SortOrder   int          `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

// TableName sets the database table name.
func (TaxTableEntry) TableName() string { return "tax_table_entries" }
