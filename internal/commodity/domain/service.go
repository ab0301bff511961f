package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Commodity, error)
	ListByBook(ctx context.Context, bookID string) ([]Commodity, error)
	StandardCurrencies() []StandardCurrency
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, commodity Commodity) error
	FindByID(ctx context.Context, id int64) (*Commodity, error)
	ListByBook(ctx context.Context, bookID int64) ([]Commodity, error)
	BookExists(ctx context.Context, bookID int64) (bool, error)
}

type CreateRequest struct {
	BookID      string `json:"book_id"`
	Namespace   string `json:"namespace"`
	Mnemonic    string `json:"mnemonic"`
	Fullname    string `json:"fullname"`
	Fraction    int    `json:"fraction"`
	QuoteSource string `json:"quote_source"`
	GetQuotes   bool   `json:"get_quotes"`
}

var (
	ErrInvalidBook     = errors.New("invalid_book")
	ErrInvalidMnemonic = errors.New("invalid_mnemonic")
	ErrInvalidFraction = errors.New("invalid_fraction")
	ErrBookNotFound    = errors.New("book_not_found")
)
