package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	"github.com/smallbiznis/booksd/internal/book/domain"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultMnemonic = "USD"
	defaultFullname = "US Dollar"
	defaultFraction = 100
)

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	repo          domain.Repository
	commodityRepo commoditydomain.Repository
	accountRepo   accountdomain.Repository
	genID         *snowflake.Node
}

func NewService(
	db *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	commodityRepo commoditydomain.Repository,
	accountRepo accountdomain.Repository,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:            db,
		log:           log.Named("book.service"),
		repo:          repo,
		commodityRepo: commodityRepo,
		accountRepo:   accountRepo,
		genID:         genID,
	}
}

// Provision creates a book with its base currency, root account and settings
// row in one transaction. The book row is inserted with null currency/root
// references, then linked once both dependents exist; no intermediate state
// is visible outside the transaction.
func (s *service) Provision(ctx context.Context, req domain.ProvisionRequest) (*domain.ProvisionResult, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	fiscalStart, err := time.Parse("2006-01-02", strings.TrimSpace(req.FiscalYearStart))
	if err != nil {
		return nil, domain.ErrInvalidFiscalStart
	}

	mnemonic := defaultMnemonic
	if req.Currency.Mnemonic != nil {
		mnemonic = strings.TrimSpace(*req.Currency.Mnemonic)
		if mnemonic == "" {
			return nil, domain.ErrInvalidMnemonic
		}
	}
	fullname := defaultFullname
	if req.Currency.Fullname != nil {
		fullname = strings.TrimSpace(*req.Currency.Fullname)
	}
	fraction := defaultFraction
	if req.Currency.Fraction != nil {
		fraction = *req.Currency.Fraction
		if fraction <= 0 {
			return nil, domain.ErrInvalidFraction
		}
	}

	active, err := s.repo.OrganizationActive(ctx, orgID.Int64())
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrOrganizationNotFound
	}

	now := time.Now().UTC()
	book := domain.Book{
		ID:              s.genID.Generate(),
		OrganizationID:  orgID,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		FiscalYearStart: fiscalStart,
		Settings:        datatypes.JSONMap{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	currency := commoditydomain.Commodity{
		ID:          s.genID.Generate(),
		BookID:      book.ID,
		Namespace:   commoditydomain.NamespaceCurrency,
		Mnemonic:    mnemonic,
		Fullname:    fullname,
		Fraction:    fraction,
		QuoteSource: commoditydomain.NamespaceCurrency,
		CreatedAt:   now,
	}
	rootAccount := accountdomain.Account{
		ID:          s.genID.Generate(),
		BookID:      book.ID,
		ParentID:    nil,
		Name:        accountdomain.RootAccountName,
		Type:        accountdomain.TypeRoot,
		CommodityID: currency.ID,
		Placeholder: true,
		Hidden:      true,
		CreatedAt:   now,
	}
	settings := domain.BookSettings{
		BookID:              book.ID,
		UseTradingAccounts:  false,
		UseSplitActionField: false,
		AutoReadonlyDays:    "0",
		EnableEuroSupport:   false,
		AccountingPeriod:    datatypes.JSONMap{},
		UpdatedAt:           now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateBook(ctx, book); err != nil {
			return err
		}
		if err := s.commodityRepo.WithTx(tx).Create(ctx, currency); err != nil {
			return err
		}
		if err := s.accountRepo.WithTx(tx).Create(ctx, rootAccount); err != nil {
			return err
		}
		if err := repo.LinkBook(ctx, book.ID.Int64(), currency.ID.Int64(), rootAccount.ID.Int64()); err != nil {
			return err
		}
		return repo.CreateSettings(ctx, settings)
	}, s.txOptions()...)
	if err != nil {
		s.log.Error("book provisioning aborted", zap.Error(err), zap.String("organization_id", orgID.String()))
		return nil, err
	}

	book.DefaultCurrencyID = &currency.ID
	book.RootAccountID = &rootAccount.ID

	return &domain.ProvisionResult{
		Book:         book,
		BaseCurrency: currency,
		RootAccount:  rootAccount,
	}, nil
}

// txOptions requests serializable isolation so no reader can observe a book
// with null references after the link-back update starts. sqlite is already
// serializable and rejects explicit isolation levels.
func (s *service) txOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
}

func (s *service) ListByOrganization(ctx context.Context, orgID string) ([]domain.Book, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrganization(ctx, id.Int64())
}

func (s *service) GetSettings(ctx context.Context, bookID string) (*domain.BookSettings, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidBook
	}

	settings, err := s.repo.FindSettings(ctx, id.Int64())
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, bookID string, req domain.UpdateSettingsRequest) (*domain.BookSettings, error) {
	if req.Empty() {
		return nil, domain.ErrEmptySettingsPatch
	}

	settings, err := s.GetSettings(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.UseTradingAccounts != nil {
		settings.UseTradingAccounts = *req.UseTradingAccounts
	}
	if req.UseSplitActionField != nil {
		settings.UseSplitActionField = *req.UseSplitActionField
	}
	if req.AutoReadonlyDays != nil {
		settings.AutoReadonlyDays = strings.TrimSpace(*req.AutoReadonlyDays)
	}
	if req.EnableEuroSupport != nil {
		settings.EnableEuroSupport = *req.EnableEuroSupport
	}
	if req.AccountingPeriod != nil {
		settings.AccountingPeriod = req.AccountingPeriod
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateSettings(ctx, *settings); err != nil {
		return nil, err
	}
	return settings, nil
}
