// Package domain contains persistence models for the chart of accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account types. ROOT is reserved for the single hidden node created at book
// provisioning; it is never accepted from API callers.
const (
	TypeRoot       = "ROOT"
	TypeAsset      = "ASSET"
	TypeBank       = "BANK"
	TypeCash       = "CASH"
	TypeCredit     = "CREDIT"
	TypeLiability  = "LIABILITY"
	TypeIncome     = "INCOME"
	TypeExpense    = "EXPENSE"
	TypeEquity     = "EQUITY"
	TypeReceivable = "RECEIVABLE"
	TypePayable    = "PAYABLE"
)

// RootAccountName is the fixed name of the provisioned root node.
const RootAccountName = "Root Account"

// Account is a node in a book's hierarchical chart of accounts. ParentID is
// null only for the ROOT node.
type Account struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	BookID      snowflake.ID  `gorm:"column:book_id;not null;index" json:"book_id"`
	ParentID    *snowflake.ID `gorm:"column:parent_id;index" json:"parent_id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Type        string        `gorm:"type:text;not null" json:"type"`
	CommodityID snowflake.ID  `gorm:"column:commodity_id;not null" json:"commodity_id"`
	Code        string        `gorm:"type:text" json:"code"`
	Description string        `gorm:"type:text" json:"description"`
	Placeholder bool          `gorm:"not null;default:false" json:"placeholder"`
	Hidden      bool          `gorm:"not null;default:false" json:"hidden"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// ValidType reports whether t is an ordinary (non-ROOT) account type.
func ValidType(t string) bool {
	switch t {
	case TypeAsset, TypeBank, TypeCash, TypeCredit, TypeLiability,
		TypeIncome, TypeExpense, TypeEquity, TypeReceivable, TypePayable:
		return true
	default:
		return false
	}
}
