package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/auth/domain"
	"github.com/smallbiznis/booksd/internal/auth/repository"
	"github.com/smallbiznis/booksd/internal/config"
	orgdomain "github.com/smallbiznis/booksd/internal/organization/domain"
	orgrepo "github.com/smallbiznis/booksd/internal/organization/repository"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	userrolerepo "github.com/smallbiznis/booksd/internal/userrole/repository"
	"github.com/smallbiznis/booksd/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type authEnv struct {
	db  *gorm.DB
	svc domain.Service
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&orgdomain.Organization{},
		&userroledomain.UserRole{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo, sessionRepo := repository.New(dbConn)
	svc := New(
		zaptest.NewLogger(t),
		dbConn,
		repo,
		sessionRepo,
		orgrepo.NewRepository(dbConn),
		userrolerepo.NewRepository(dbConn),
		node,
		config.Config{AuthTokenTTLHours: 24},
	)

	return &authEnv{db: dbConn, svc: svc}
}

func registerReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:            "owner@acme.test",
		Password:         "s3cret-pass",
		FirstName:        "Olivia",
		LastName:         "Owner",
		OrganizationName: "Acme Ltd",
		UserAgent:        "test-agent",
		IPAddress:        "127.0.0.1",
	}
}

func TestRegisterProvisionsUserOrgAndAdminRole(t *testing.T) {
	env := newAuthEnv(t)

	res, err := env.svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	require.Equal(t, "owner@acme.test", res.User.Email)
	require.Equal(t, userroledomain.RoleAdmin, res.Role)
	require.NotEmpty(t, res.OrganizationID)
	require.NotEmpty(t, res.Token)
	require.True(t, res.ExpiresAt.After(time.Now()))

	var user domain.User
	require.NoError(t, env.db.First(&user, "email = ?", "owner@acme.test").Error)
	require.NotNil(t, user.PasswordHash)
	// The cleartext never touches storage.
	require.NotContains(t, *user.PasswordHash, "s3cret-pass")
	require.NotEmpty(t, user.ExternalID)

	var org orgdomain.Organization
	require.NoError(t, env.db.First(&org, "name = ?", "Acme Ltd").Error)
	require.True(t, org.IsActive)
	require.Equal(t, res.OrganizationID, org.ID.String())

	var role userroledomain.UserRole
	require.NoError(t, env.db.First(&role, "user_id = ?", user.ID.Int64()).Error)
	require.Equal(t, userroledomain.RoleAdmin, role.Role)
	require.Equal(t, org.ID, role.OrganizationID)
	require.Equal(t, true, role.Permissions["all"])

	var session domain.Session
	require.NoError(t, env.db.First(&session, "user_id = ?", user.ID.Int64()).Error)
	// Only the hash is persisted.
	require.NotEqual(t, res.Token, session.SessionTokenHash)
	require.Len(t, session.SessionTokenHash, 64)
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	req := registerReq()
	req.Email = "not-an-email"
	_, err := env.svc.Register(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	req = registerReq()
	req.Password = "short"
	_, err = env.svc.Register(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidPassword)

	req = registerReq()
	req.OrganizationName = "  "
	_, err = env.svc.Register(ctx, req)
	require.ErrorIs(t, err, orgdomain.ErrInvalidName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	req := registerReq()
	req.Email = "Owner@ACME.test"
	req.OrganizationName = "Second Org"
	_, err = env.svc.Register(ctx, req)
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	// The failed attempt must not leave a second organization behind.
	var orgs int64
	require.NoError(t, env.db.Model(&orgdomain.Organization{}).Count(&orgs).Error)
	require.EqualValues(t, 1, orgs)
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	res, err := env.svc.Login(ctx, domain.LoginRequest{
		Email:    "OWNER@acme.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "owner@acme.test", res.User.Email)
	require.NotEmpty(t, res.Token)
	// Login resolves the caller's organizations and roles for display.
	require.Len(t, res.Memberships, 1)
	require.Equal(t, reg.OrganizationID, res.Memberships[0].OrganizationID)
	require.Equal(t, userroledomain.RoleAdmin, res.Memberships[0].Role)

	_, err = env.svc.Login(ctx, domain.LoginRequest{
		Email:    "owner@acme.test",
		Password: "wrong-pass",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, domain.LoginRequest{
		Email:    "nobody@acme.test",
		Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	session, err := env.svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, session.UserID.String())

	me, err := env.svc.Me(ctx, session.UserID)
	require.NoError(t, err)
	require.Equal(t, "owner@acme.test", me.Email)

	_, err = env.svc.Authenticate(ctx, "forged-token")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, res.Token))

	_, err = env.svc.Authenticate(ctx, res.Token)
	require.ErrorIs(t, err, domain.ErrSessionRevoked)

	require.ErrorIs(t, env.svc.Logout(ctx, ""), domain.ErrInvalidSession)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, env.db.Model(&domain.Session{}).
		Where("1 = 1").
		Update("expires_at", past).Error)

	_, err = env.svc.Authenticate(ctx, res.Token)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}
