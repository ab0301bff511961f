package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/account/domain"
	"github.com/smallbiznis/booksd/internal/account/repository"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
	"github.com/smallbiznis/booksd/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accountEnv struct {
	db          *gorm.DB
	svc         domain.Service
	node        *snowflake.Node
	bookID      snowflake.ID
	rootID      snowflake.ID
	commodityID snowflake.ID
}

func newAccountEnv(t *testing.T) *accountEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Account{}, &commoditydomain.Commodity{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	bookID := node.Generate()
	commodity := commoditydomain.Commodity{
		ID:        node.Generate(),
		BookID:    bookID,
		Namespace: commoditydomain.NamespaceCurrency,
		Mnemonic:  "USD",
		Fullname:  "US Dollar",
		Fraction:  100,
	}
	require.NoError(t, dbConn.Create(&commodity).Error)

	root := domain.Account{
		ID:          node.Generate(),
		BookID:      bookID,
		Name:        domain.RootAccountName,
		Type:        domain.TypeRoot,
		CommodityID: commodity.ID,
		Placeholder: true,
		Hidden:      true,
	}
	require.NoError(t, dbConn.Create(&root).Error)

	svc := NewService(repository.NewRepository(dbConn), node)

	return &accountEnv{
		db:          dbConn,
		svc:         svc,
		node:        node,
		bookID:      bookID,
		rootID:      root.ID,
		commodityID: commodity.ID,
	}
}

func (e *accountEnv) createReq(name string) domain.CreateRequest {
	return domain.CreateRequest{
		BookID:      e.bookID.String(),
		ParentID:    e.rootID.String(),
		Name:        name,
		Type:        domain.TypeAsset,
		CommodityID: e.commodityID.String(),
	}
}

func TestCreateAccount(t *testing.T) {
	env := newAccountEnv(t)

	account, err := env.svc.Create(context.Background(), env.createReq("Checking"))
	require.NoError(t, err)
	require.Equal(t, domain.TypeAsset, account.Type)
	require.NotNil(t, account.ParentID)
	require.Equal(t, env.rootID, *account.ParentID)
	require.False(t, account.Hidden)
}

func TestCreateRefusesRootType(t *testing.T) {
	env := newAccountEnv(t)

	req := env.createReq("Another Root")
	req.Type = domain.TypeRoot
	_, err := env.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrRootReserved)

	req.Type = "SAVINGS"
	_, err = env.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestCreateRequiresParent(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	req := env.createReq("Orphan")
	req.ParentID = ""
	_, err := env.svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidParent)

	req.ParentID = env.node.Generate().String()
	_, err = env.svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestCreateRejectsParentFromOtherBook(t *testing.T) {
	env := newAccountEnv(t)

	otherRoot := domain.Account{
		ID:          env.node.Generate(),
		BookID:      env.node.Generate(),
		Name:        domain.RootAccountName,
		Type:        domain.TypeRoot,
		CommodityID: env.commodityID,
	}
	require.NoError(t, env.db.Create(&otherRoot).Error)

	req := env.createReq("Misplaced")
	req.ParentID = otherRoot.ID.String()
	_, err := env.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrParentOtherBook)
}

func TestCreateRejectsForeignCommodity(t *testing.T) {
	env := newAccountEnv(t)

	req := env.createReq("Wrong Money")
	req.CommodityID = env.node.Generate().String()
	_, err := env.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidCommodity)
}

func TestListByBookOrdersEmptyCodesLast(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	specs := []struct {
		name string
		code string
	}{
		{"Uncoded B", ""},
		{"Equity", "3000"},
		{"Checking", "1000"},
		{"Uncoded A", ""},
	}
	for _, spec := range specs {
		req := env.createReq(spec.name)
		req.Code = spec.code
		_, err := env.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	accounts, err := env.svc.ListByBook(ctx, env.bookID.String())
	require.NoError(t, err)
	require.Len(t, accounts, 5)

	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	// Coded accounts first by code, then code-less by name. The root node
	// has no code, so it sorts among the uncoded block.
	require.Equal(t, []string{"Checking", "Equity", "Root Account", "Uncoded A", "Uncoded B"}, names)
}

func TestListByBookOrdersCodesByteWise(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	// Byte-wise comparison puts "A-1" before "A1" ('-' sorts below '1');
	// locale-aware collations that skip punctuation would flip the pair.
	specs := []struct {
		name string
		code string
	}{
		{"Sub One", "A1"},
		{"Dash One", "A-1"},
	}
	for _, spec := range specs {
		req := env.createReq(spec.name)
		req.Code = spec.code
		_, err := env.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	accounts, err := env.svc.ListByBook(ctx, env.bookID.String())
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	require.Equal(t, "Dash One", accounts[0].Name)
	require.Equal(t, "Sub One", accounts[1].Name)
}
