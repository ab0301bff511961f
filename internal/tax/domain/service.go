package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/booksd/internal/rational"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TableResponse, error)
	ListByBook(ctx context.Context, bookID string) ([]TableResponse, error)
	TotalRate(ctx context.Context, tableID string) (*RateResponse, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTable(ctx context.Context, table TaxTable) error
	CreateEntry(ctx context.Context, entry TaxTableEntry) error
	FindTable(ctx context.Context, id int64) (*TaxTable, error)
	ListByBook(ctx context.Context, bookID int64) ([]TaxTable, error)
	ListEntries(ctx context.Context, tableID int64) ([]EntryItem, error)
	AccountInBook(ctx context.Context, accountID, bookID int64) (bool, error)
	BookExists(ctx context.Context, bookID int64) (bool, error)
}

// EntryItem is an entry joined with the target account name for display.
type EntryItem struct {
	TaxTableEntry
	AccountName string `json:"account_name"`
}

type CreateEntryRequest struct {
	AccountID   string `json:"account_id"`
	AmountNum   int64  `json:"amount_num"`
	AmountDenom *int64 `json:"amount_denom"`
	Type        string `json:"type"`
	SortOrder   *int   `json:"sort_order"`
}

type CreateRequest struct {
	BookID    string               `json:"book_id"`
	Name      string               `json:"name"`
	IsDefault bool                 `json:"is_default"`
	Entries   []CreateEntryRequest `json:"entries"`
}

type TableResponse struct {
	TaxTable
	Entries []EntryItem `json:"entries"`
}

// RateResponse carries the exact combined rate plus its rendered forms. The
// fraction fields are authoritative; the strings exist for display only.
type RateResponse struct {
	TaxTableID  string `json:"tax_table_id"`
	AmountNum   int64  `json:"amount_num"`
	AmountDenom int64  `json:"amount_denom"`
	Rate        string `json:"rate"`
	Percent     string `json:"percent"`
}

// Exact returns the combined rate as a rational value.
func (r RateResponse) Exact() rational.Rat {
	return rational.Rat{Num: r.AmountNum, Denom: r.AmountDenom}
}

var (
	ErrInvalidBook      = errors.New("invalid_book")
	ErrBookNotFound     = errors.New("tax_book_not_found")
	ErrInvalidName      = errors.New("invalid_tax_table_name")
	ErrInvalidTable     = errors.New("invalid_tax_table")
	ErrTableNotFound    = errors.New("tax_table_not_found")
	ErrInvalidAccount   = errors.New("invalid_tax_account")
	ErrAccountNotFound  = errors.New("tax_account_not_found")
	ErrInvalidRate      = errors.New("invalid_tax_rate")
	ErrInvalidEntryType = errors.New("invalid_tax_entry_type")
)
