package domain

import (
	"context"
	"errors"

	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Book, error)
	GetSettings(ctx context.Context, bookID string) (*BookSettings, error)
	UpdateSettings(ctx context.Context, bookID string, req UpdateSettingsRequest) (*BookSettings, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBook(ctx context.Context, book Book) error
	LinkBook(ctx context.Context, bookID, currencyID, rootAccountID int64) error
	FindByID(ctx context.Context, id int64) (*Book, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]Book, error)
	OrganizationActive(ctx context.Context, orgID int64) (bool, error)
	CreateSettings(ctx context.Context, settings BookSettings) error
	FindSettings(ctx context.Context, bookID int64) (*BookSettings, error)
	UpdateSettings(ctx context.Context, settings BookSettings) error
}

// CurrencySpec describes the base currency for a new book. Pointer fields
// distinguish absent from empty: defaults apply only when a field is missing
// entirely.
type CurrencySpec struct {
	Mnemonic *string `json:"mnemonic"`
	Fullname *string `json:"fullname"`
	Fraction *int    `json:"fraction"`
}

type ProvisionRequest struct {
	OrganizationID  string       `json:"organization_id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	FiscalYearStart string       `json:"fiscal_year_start"`
	Currency        CurrencySpec `json:"currency"`
}

type ProvisionResult struct {
	Book         Book                      `json:"book"`
	BaseCurrency commoditydomain.Commodity `json:"base_currency"`
	RootAccount  accountdomain.Account     `json:"root_account"`
}

// UpdateSettingsRequest carries the allow-listed settings fields. Anything
// else in the request body is ignored.
type UpdateSettingsRequest struct {
	UseTradingAccounts  *bool             `json:"use_trading_accounts,omitempty"`
	UseSplitActionField *bool             `json:"use_split_action_field,omitempty"`
	AutoReadonlyDays    *string           `json:"auto_readonly_days,omitempty"`
	EnableEuroSupport   *bool             `json:"enable_euro_support,omitempty"`
	AccountingPeriod    datatypes.JSONMap `json:"accounting_period,omitempty"`
}

// Empty reports whether the patch touches no allow-listed field.
func (r UpdateSettingsRequest) Empty() bool {
	return r.UseTradingAccounts == nil &&
		r.UseSplitActionField == nil &&
		r.AutoReadonlyDays == nil &&
		r.EnableEuroSupport == nil &&
		r.AccountingPeriod == nil
}

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrOrganizationNotFound = errors.New("organization_not_found")
	ErrInvalidName          = errors.New("invalid_book_name")
	ErrInvalidFiscalStart   = errors.New("invalid_fiscal_year_start")
	ErrInvalidMnemonic      = errors.New("invalid_mnemonic")
	ErrInvalidFraction      = errors.New("invalid_fraction")
	ErrInvalidBook          = errors.New("invalid_book")
	ErrNotFound             = errors.New("book_not_found")
	ErrSettingsNotFound     = errors.New("settings_not_found")
	ErrEmptySettingsPatch   = errors.New("empty_settings_patch")
)
