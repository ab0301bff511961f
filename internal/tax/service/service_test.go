package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	bookdomain "github.com/smallbiznis/booksd/internal/book/domain"
	"github.com/smallbiznis/booksd/internal/config"
	taxdomain "github.com/smallbiznis/booksd/internal/tax/domain"
	"github.com/smallbiznis/booksd/internal/tax/repository"
	"github.com/smallbiznis/booksd/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type taxEnv struct {
	db        *gorm.DB
	svc       taxdomain.Service
	node      *snowflake.Node
	bookID    snowflake.ID
	accountID snowflake.ID
}

func newTaxEnv(t *testing.T) *taxEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&bookdomain.Book{},
		&accountdomain.Account{},
		&taxdomain.TaxTable{},
		&taxdomain.TaxTableEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	book := bookdomain.Book{ID: node.Generate(), OrganizationID: node.Generate(), Name: "Ledger"}
	require.NoError(t, dbConn.Create(&book).Error)

	account := accountdomain.Account{
		ID:          node.Generate(),
		BookID:      book.ID,
		Name:        "Sales Tax Payable",
		Type:        accountdomain.TypeLiability,
		CommodityID: node.Generate(),
	}
	require.NoError(t, dbConn.Create(&account).Error)

	display, err := config.NewDisplayConfigHolder()
	require.NoError(t, err)

	svc := NewService(dbConn, zaptest.NewLogger(t), repository.NewRepository(dbConn), node, display)

	return &taxEnv{db: dbConn, svc: svc, node: node, bookID: book.ID, accountID: account.ID}
}

func int64ptr(v int64) *int64 { return &v }
func intptr(v int) *int       { return &v }

func TestCreateAppliesEntryDefaults(t *testing.T) {
	env := newTaxEnv(t)

	table, err := env.svc.Create(context.Background(), taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Standard Sales",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 15},
		},
	})
	require.NoError(t, err)
	require.True(t, table.Active)
	require.Len(t, table.Entries, 1)

	entry := table.Entries[0]
	require.Equal(t, int64(15), entry.AmountNum)
	require.Equal(t, int64(100), entry.AmountDenom)
	require.Equal(t, taxdomain.EntryTypePercent, entry.Type)
	require.Equal(t, 0, entry.SortOrder)
	require.Equal(t, "Sales Tax Payable", entry.AccountName)
}

func TestCreateUnknownAccountRollsBackEverything(t *testing.T) {
	env := newTaxEnv(t)

	_, err := env.svc.Create(context.Background(), taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Broken",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 10},
			{AccountID: env.node.Generate().String(), AmountNum: 5},
		},
	})
	require.ErrorIs(t, err, taxdomain.ErrAccountNotFound)

	var tables, entries int64
	require.NoError(t, env.db.Model(&taxdomain.TaxTable{}).Count(&tables).Error)
	require.NoError(t, env.db.Model(&taxdomain.TaxTableEntry{}).Count(&entries).Error)
	require.Zero(t, tables)
	require.Zero(t, entries)
}

func TestCreateValidation(t *testing.T) {
	env := newTaxEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, taxdomain.CreateRequest{
		BookID: env.node.Generate().String(),
		Name:   "Orphan",
	})
	require.ErrorIs(t, err, taxdomain.ErrBookNotFound)

	_, err = env.svc.Create(ctx, taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Bad Denominator",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 5, AmountDenom: int64ptr(0)},
		},
	})
	require.ErrorIs(t, err, taxdomain.ErrInvalidRate)

	_, err = env.svc.Create(ctx, taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Bad Type",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 5, Type: "FLAT"},
		},
	})
	require.ErrorIs(t, err, taxdomain.ErrInvalidEntryType)
}

func TestTotalRateStacksExactly(t *testing.T) {
	env := newTaxEnv(t)
	ctx := context.Background()

	table, err := env.svc.Create(ctx, taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Combined",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 10, SortOrder: intptr(1)},
			{AccountID: env.accountID.String(), AmountNum: 5, SortOrder: intptr(2)},
		},
	})
	require.NoError(t, err)

	rate, err := env.svc.TotalRate(ctx, table.ID.String())
	require.NoError(t, err)
	// 10/100 + 5/100 reduces to 3/20, never 0.15000000000000002.
	require.Equal(t, int64(3), rate.AmountNum)
	require.Equal(t, int64(20), rate.AmountDenom)
	require.Equal(t, "0.15", rate.Rate)
	require.Equal(t, "15", rate.Percent)
}

func TestTotalRateBinaryFractions(t *testing.T) {
	env := newTaxEnv(t)
	ctx := context.Background()

	table, err := env.svc.Create(ctx, taxdomain.CreateRequest{
		BookID: env.bookID.String(),
		Name:   "Eighths",
		Entries: []taxdomain.CreateEntryRequest{
			{AccountID: env.accountID.String(), AmountNum: 1, AmountDenom: int64ptr(8)},
			{AccountID: env.accountID.String(), AmountNum: 1, AmountDenom: int64ptr(4)},
		},
	})
	require.NoError(t, err)

	rate, err := env.svc.TotalRate(ctx, table.ID.String())
	require.NoError(t, err)
	require.Equal(t, int64(3), rate.AmountNum)
	require.Equal(t, int64(8), rate.AmountDenom)
	require.Equal(t, "0.375", rate.Rate)
	require.Equal(t, "37.5", rate.Percent)
}

func TestTotalRateUnknownTable(t *testing.T) {
	env := newTaxEnv(t)

	_, err := env.svc.TotalRate(context.Background(), env.node.Generate().String())
	require.ErrorIs(t, err, taxdomain.ErrTableNotFound)
}

func TestTotalRateDeactivatedTable(t *testing.T) {
	env := newTaxEnv(t)

	// A soft-deleted table inserted with Active false must stay false and
	// be invisible to rate computation.
	table := taxdomain.TaxTable{
		ID:     env.node.Generate(),
		BookID: env.bookID,
		Name:   "Retired VAT",
		Active: false,
	}
	require.NoError(t, env.db.Create(&table).Error)

	var stored taxdomain.TaxTable
	require.NoError(t, env.db.First(&stored, "id = ?", table.ID.Int64()).Error)
	require.False(t, stored.Active)

	_, err := env.svc.TotalRate(context.Background(), table.ID.String())
	require.ErrorIs(t, err, taxdomain.ErrTableNotFound)
}
