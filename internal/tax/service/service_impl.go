package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/config"
	"github.com/smallbiznis/booksd/internal/rational"
	"github.com/smallbiznis/booksd/internal/tax/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAmountDenom = 100

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	genID   *snowflake.Node
	display *config.DisplayConfigHolder
}

func NewService(
	db *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	genID *snowflake.Node,
	display *config.DisplayConfigHolder,
) domain.Service {
	return &service{
		db:      db,
		log:     log.Named("tax.service"),
		repo:    repo,
		genID:   genID,
		display: display,
	}
}

// Create persists the table header and all entries in one transaction. A
// failing entry rolls everything back, header included.
func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.TableResponse, error) {
	bookID, err := snowflake.ParseString(strings.TrimSpace(req.BookID))
	if err != nil || bookID == 0 {
		return nil, domain.ErrInvalidBook
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	exists, err := s.repo.BookExists(ctx, bookID.Int64())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBookNotFound
	}

	table := domain.TaxTable{
		ID:        s.genID.Generate(),
		BookID:    bookID,
		Name:      name,
		IsDefault: req.IsDefault,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	entries := make([]domain.TaxTableEntry, 0, len(req.Entries))
	for _, in := range req.Entries {
		entry, err := s.buildEntry(table.ID, in)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateTable(ctx, table); err != nil {
			return err
		}
		for _, entry := range entries {
			ok, err := repo.AccountInBook(ctx, entry.AccountID.Int64(), bookID.Int64())
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrAccountNotFound
			}
			if err := repo.CreateEntry(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("tax table creation aborted", zap.Error(err), zap.String("book_id", bookID.String()))
		return nil, err
	}

	items, err := s.repo.ListEntries(ctx, table.ID.Int64())
	if err != nil {
		return nil, err
	}
	return &domain.TableResponse{TaxTable: table, Entries: items}, nil
}

func (s *service) buildEntry(tableID snowflake.ID, in domain.CreateEntryRequest) (domain.TaxTableEntry, error) {
	accountID, err := snowflake.ParseString(strings.TrimSpace(in.AccountID))
	if err != nil || accountID == 0 {
		return domain.TaxTableEntry{}, domain.ErrInvalidAccount
	}

	denom := int64(defaultAmountDenom)
	if in.AmountDenom != nil {
		denom = *in.AmountDenom
	}
	if denom <= 0 || in.AmountNum < 0 {
		return domain.TaxTableEntry{}, domain.ErrInvalidRate
	}

	entryType := strings.ToUpper(strings.TrimSpace(in.Type))
	if entryType == "" {
		entryType = domain.EntryTypePercent
	}
	if entryType != domain.EntryTypePercent {
		return domain.TaxTableEntry{}, domain.ErrInvalidEntryType
	}

	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}

	return domain.TaxTableEntry{
		ID:          s.genID.Generate(),
		TaxTableID:  tableID,
		AccountID:   accountID,
		AmountNum:   in.AmountNum,
		AmountDenom: denom,
		Type:        entryType,
		SortOrder:   sortOrder,
	}, nil
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]domain.TableResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidBook
	}

	tables, err := s.repo.ListByBook(ctx, id.Int64())
	if err != nil {
		return nil, err
	}

	resp := make([]domain.TableResponse, 0, len(tables))
	for _, table := range tables {
		entries, err := s.repo.ListEntries(ctx, table.ID.Int64())
		if err != nil {
			return nil, err
		}
		resp = append(resp, domain.TableResponse{TaxTable: table, Entries: entries})
	}
	return resp, nil
}

// TotalRate sums the component fractions exactly. Components stack
// additively; division happens only when rendering the display strings.
func (s *service) TotalRate(ctx context.Context, tableID string) (*domain.RateResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(tableID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidTable
	}

	table, err := s.repo.FindTable(ctx, id.Int64())
	if err != nil {
		return nil, err
	}
	if table == nil || !table.Active {
		return nil, domain.ErrTableNotFound
	}

	entries, err := s.repo.ListEntries(ctx, id.Int64())
	if err != nil {
		return nil, err
	}

	sum := rational.Zero()
	for _, entry := range entries {
		component, err := rational.New(entry.AmountNum, entry.AmountDenom)
		if err != nil {
			return nil, domain.ErrInvalidRate
		}
		sum = sum.Add(component)
	}

	display := s.display.Get()
	return &domain.RateResponse{
		TaxTableID:  table.ID.String(),
		AmountNum:   sum.Num,
		AmountDenom: sum.Denom,
		Rate:        sum.Decimal(display.RateDecimalPlaces).String(),
		Percent:     sum.Percent(display.PercentDecimalPlaces).String(),
	}, nil
}
