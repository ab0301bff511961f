package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	bookdomain "github.com/smallbiznis/booksd/internal/book/domain"
	"github.com/smallbiznis/booksd/internal/commodity/domain"
	"github.com/smallbiznis/booksd/internal/commodity/repository"
	"github.com/smallbiznis/booksd/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type commodityEnv struct {
	db     *gorm.DB
	svc    domain.Service
	bookID snowflake.ID
}

func newCommodityEnv(t *testing.T) *commodityEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Commodity{}, &bookdomain.Book{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	book := bookdomain.Book{
		ID:             node.Generate(),
		OrganizationID: node.Generate(),
		Name:           "Acme Main",
	}
	require.NoError(t, dbConn.Create(&book).Error)

	return &commodityEnv{
		db:     dbConn,
		svc:    NewService(repository.NewRepository(dbConn), node),
		bookID: book.ID,
	}
}

func TestCreateCommodityDefaults(t *testing.T) {
	env := newCommodityEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, domain.CreateRequest{
		BookID:   env.bookID.String(),
		Mnemonic: " EUR ",
		Fullname: "Euro",
		Fraction: 100,
	})
	require.NoError(t, err)
	require.Equal(t, "EUR", created.Mnemonic)
	require.Equal(t, domain.NamespaceCurrency, created.Namespace)
	require.Equal(t, domain.NamespaceCurrency, created.QuoteSource)
	require.False(t, created.GetQuotes)

	var stored domain.Commodity
	require.NoError(t, env.db.First(&stored, "id = ?", created.ID.Int64()).Error)
	require.Equal(t, env.bookID, stored.BookID)
	require.Equal(t, 100, stored.Fraction)
}

func TestCreateCommodityExplicitNamespace(t *testing.T) {
	env := newCommodityEnv(t)

	created, err := env.svc.Create(context.Background(), domain.CreateRequest{
		BookID:      env.bookID.String(),
		Namespace:   domain.NamespaceISO4217,
		Mnemonic:    "JPY",
		Fullname:    "Japanese Yen",
		Fraction:    1,
		QuoteSource: "yahoo",
		GetQuotes:   true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.NamespaceISO4217, created.Namespace)
	require.Equal(t, "yahoo", created.QuoteSource)
	require.Equal(t, 1, created.Fraction)
	require.True(t, created.GetQuotes)
}

func TestCreateCommodityValidation(t *testing.T) {
	env := newCommodityEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{
			name: "bad book id",
			req:  domain.CreateRequest{BookID: "nope", Mnemonic: "USD", Fraction: 100},
			want: domain.ErrInvalidBook,
		},
		{
			name: "empty mnemonic",
			req:  domain.CreateRequest{BookID: env.bookID.String(), Mnemonic: "  ", Fraction: 100},
			want: domain.ErrInvalidMnemonic,
		},
		{
			name: "zero fraction",
			req:  domain.CreateRequest{BookID: env.bookID.String(), Mnemonic: "USD", Fraction: 0},
			want: domain.ErrInvalidFraction,
		},
		{
			name: "negative fraction",
			req:  domain.CreateRequest{BookID: env.bookID.String(), Mnemonic: "USD", Fraction: -10},
			want: domain.ErrInvalidFraction,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Create(ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&domain.Commodity{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateCommodityUnknownBook(t *testing.T) {
	env := newCommodityEnv(t)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), domain.CreateRequest{
		BookID:   node.Generate().String(),
		Mnemonic: "USD",
		Fraction: 100,
	})
	require.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestListByBook(t *testing.T) {
	env := newCommodityEnv(t)
	ctx := context.Background()

	for _, mnemonic := range []string{"USD", "EUR"} {
		_, err := env.svc.Create(ctx, domain.CreateRequest{
			BookID:   env.bookID.String(),
			Mnemonic: mnemonic,
			Fraction: 100,
		})
		require.NoError(t, err)
	}

	listed, err := env.svc.ListByBook(ctx, env.bookID.String())
	require.NoError(t, err)
	require.Len(t, listed, 2)

	_, err = env.svc.ListByBook(ctx, "not-a-book")
	require.ErrorIs(t, err, domain.ErrInvalidBook)
}

func TestStandardCurrenciesCatalog(t *testing.T) {
	env := newCommodityEnv(t)

	catalog := env.svc.StandardCurrencies()
	require.Len(t, catalog, 7)

	byMnemonic := make(map[string]domain.StandardCurrency, len(catalog))
	for _, c := range catalog {
		require.Equal(t, domain.NamespaceISO4217, c.Namespace)
		byMnemonic[c.Mnemonic] = c
	}
	require.Equal(t, 100, byMnemonic["USD"].Fraction)
	require.Equal(t, 1, byMnemonic["JPY"].Fraction)
	require.Equal(t, "Pound Sterling", byMnemonic["GBP"].Fullname)

	// Mutating the returned slice must not leak into the catalog.
	catalog[0].Mnemonic = "XXX"
	fresh := env.svc.StandardCurrencies()
	require.NotEqual(t, "XXX", fresh[0].Mnemonic)
}
