package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Account, error)
	ListByBook(ctx context.Context, bookID string) ([]Account, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account Account) error
	FindByID(ctx context.Context, id int64) (*Account, error)
	ListByBook(ctx context.Context, bookID int64) ([]Account, error)
	CommodityInBook(ctx context.Context, commodityID, bookID int64) (bool, error)
}

type CreateRequest struct {
	BookID      string `json:"book_id"`
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	CommodityID string `json:"commodity_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Placeholder bool   `json:"placeholder"`
}

var (
	ErrInvalidBook      = errors.New("invalid_book")
	ErrInvalidName      = errors.New("invalid_account_name")
	ErrInvalidType      = errors.New("invalid_account_type")
	ErrRootReserved     = errors.New("root_type_reserved")
	ErrInvalidParent    = errors.New("invalid_parent")
	ErrParentNotFound   = errors.New("parent_not_found")
	ErrParentOtherBook  = errors.New("parent_in_other_book")
	ErrInvalidCommodity = errors.New("invalid_commodity")
)
