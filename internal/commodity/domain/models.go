// Package domain contains persistence models for the commodity registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	// NamespaceCurrency marks the base currency created at book provisioning.
	NamespaceCurrency = "CURRENCY"
	// NamespaceISO4217 marks currencies cloned from the standard catalog.
	NamespaceISO4217 = "ISO4217"
)

// Commodity is a currency or tradable unit scoped to one book. Fraction is
// the number of minor units per major unit (100 for cent-based currencies).
type Commodity struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BookID      snowflake.ID `gorm:"column:book_id;not null;index" json:"book_id"`
	Namespace   string       `gorm:"type:text;not null" json:"namespace"`
	Mnemonic    string       `gorm:"type:text;not null" json:"mnemonic"`
	Fullname    string       `gorm:"type:text;not null" json:"fullname"`
	Fraction    int          `gorm:"not null" json:"fraction"`
	QuoteSource string       `gorm:"column:quote_source;type:text" json:"quote_source"`
	GetQuotes   bool         `gorm:"column:get_quotes;not null;default:false" json:"get_quotes"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Commodity) TableName() string { return "commodities" }

// StandardCurrency is an entry of the static reference catalog. It is not
// book-scoped; provisioning and selection UIs clone it into a book.
type StandardCurrency struct {
	Namespace string `json:"namespace"`
	Mnemonic  string `json:"mnemonic"`
	Fullname  string `json:"fullname"`
	Fraction  int    `json:"fraction"`
}
