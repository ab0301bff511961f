package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/booksd/internal/auth/domain"
	"github.com/smallbiznis/booksd/internal/organization/domain"
	"github.com/smallbiznis/booksd/internal/organization/repository"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	"github.com/smallbiznis/booksd/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orgEnv struct {
	db   *gorm.DB
	svc  domain.Service
	node *snowflake.Node
}

func newOrgEnv(t *testing.T) *orgEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&domain.Organization{},
		&authdomain.User{},
		&userroledomain.UserRole{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &orgEnv{
		db:   dbConn,
		svc:  NewService(dbConn, repository.NewRepository(dbConn), node),
		node: node,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateOrganization(t *testing.T) {
	env := newOrgEnv(t)

	created, err := env.svc.Create(context.Background(), domain.CreateRequest{
		Name:    "  Acme Ltd  ",
		TaxID:   "TX-100",
		Email:   "billing@acme.test",
		Address: "1 Main St",
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Ltd", created.Name)
	require.True(t, created.IsActive)
	require.NotEmpty(t, created.ID)

	fetched, err := env.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created, fetched)
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	env := newOrgEnv(t)

	_, err := env.svc.Create(context.Background(), domain.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetOrganizationErrors(t *testing.T) {
	env := newOrgEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetByID(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = env.svc.GetByID(ctx, "garbage")
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = env.svc.GetByID(ctx, env.node.Generate().String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrganization(t *testing.T) {
	env := newOrgEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, domain.CreateRequest{Name: "Acme Ltd", Phone: "555-0100"})
	require.NoError(t, err)

	updated, err := env.svc.Update(ctx, created.ID, domain.UpdateRequest{
		Name:  strPtr("Acme Holdings"),
		Email: strPtr("ops@acme.test"),
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", updated.Name)
	require.Equal(t, "ops@acme.test", updated.Email)
	// Fields absent from the patch stay untouched.
	require.Equal(t, "555-0100", updated.Phone)

	_, err = env.svc.Update(ctx, created.ID, domain.UpdateRequest{Name: strPtr("  ")})
	require.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestDeactivateOrganization(t *testing.T) {
	env := newOrgEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, domain.CreateRequest{Name: "Acme Ltd"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Deactivate(ctx, created.ID))

	// The row survives deactivation so existing references stay valid.
	fetched, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, fetched.IsActive)
}

func TestInactiveOrganizationRowRoundTrips(t *testing.T) {
	env := newOrgEnv(t)

	// An inactive row created directly must stay inactive when re-read.
	inactive := domain.Organization{ID: env.node.Generate(), Name: "Closed Co", IsActive: false}
	require.NoError(t, env.db.Create(&inactive).Error)

	fetched, err := env.svc.GetByID(context.Background(), inactive.ID.String())
	require.NoError(t, err)
	require.False(t, fetched.IsActive)
}

func TestListOrganizationUsers(t *testing.T) {
	env := newOrgEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, domain.CreateRequest{Name: "Acme Ltd"})
	require.NoError(t, err)
	orgID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	users := []authdomain.User{
		{ID: env.node.Generate(), ExternalID: "ext-b", Email: "bob@acme.test", FirstName: "Bob"},
		{ID: env.node.Generate(), ExternalID: "ext-a", Email: "alice@acme.test", FirstName: "Alice"},
	}
	roles := []string{userroledomain.RoleViewer, userroledomain.RoleAdmin}
	for i, u := range users {
		require.NoError(t, env.db.Create(&u).Error)
		require.NoError(t, env.db.Create(&userroledomain.UserRole{
			ID:             env.node.Generate(),
			UserID:         u.ID,
			OrganizationID: orgID,
			Role:           roles[i],
		}).Error)
	}

	listed, err := env.svc.ListUsers(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// Sorted by email.
	require.Equal(t, "alice@acme.test", listed[0].Email)
	require.Equal(t, userroledomain.RoleAdmin, listed[0].Role)
	require.Equal(t, "bob@acme.test", listed[1].Email)
	require.Equal(t, userroledomain.RoleViewer, listed[1].Role)
}
