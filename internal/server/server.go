package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	authdomain "github.com/smallbiznis/booksd/internal/auth/domain"
	"github.com/smallbiznis/booksd/internal/authorization"
	bookdomain "github.com/smallbiznis/booksd/internal/book/domain"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
	"github.com/smallbiznis/booksd/internal/config"
	organizationdomain "github.com/smallbiznis/booksd/internal/organization/domain"
	taxdomain "github.com/smallbiznis/booksd/internal/tax/domain"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authSvc         authdomain.Service
	authzSvc        authorization.Service
	organizationSvc organizationdomain.Service
	bookSvc         bookdomain.Service
	bookRepo        bookdomain.Repository
	accountSvc      accountdomain.Service
	commoditySvc    commoditydomain.Service
	taxSvc          taxdomain.Service
	taxRepo         taxdomain.Repository
	userRoleSvc     userroledomain.Service
	roleRepo        userroledomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	AuthSvc         authdomain.Service
	AuthzSvc        authorization.Service
	OrganizationSvc organizationdomain.Service
	BookSvc         bookdomain.Service
	BookRepo        bookdomain.Repository
	AccountSvc      accountdomain.Service
	CommoditySvc    commoditydomain.Service
	TaxSvc          taxdomain.Service
	TaxRepo         taxdomain.Repository
	UserRoleSvc     userroledomain.Service
	RoleRepo        userroledomain.Repository
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authSvc:         p.AuthSvc,
		authzSvc:        p.AuthzSvc,
		organizationSvc: p.OrganizationSvc,
		bookSvc:         p.BookSvc,
		bookRepo:        p.BookRepo,
		accountSvc:      p.AccountSvc,
		commoditySvc:    p.CommoditySvc,
		taxSvc:          p.TaxSvc,
		taxRepo:         p.TaxRepo,
		userRoleSvc:     p.UserRoleSvc,
		roleRepo:        p.RoleRepo,
	}

	s.registerRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.Register)
		auth.POST("/login", s.Login)
		auth.POST("/logout", s.AuthRequired(), s.Logout)
		auth.GET("/me", s.AuthRequired(), s.Me)
	}

	api := v1.Group("", s.AuthRequired())
	{
		api.POST("/organizations", s.CreateOrganization)
		api.GET("/organizations/:id", s.GetOrganization)
		api.PUT("/organizations/:id", s.UpdateOrganization)
		api.DELETE("/organizations/:id", s.DeactivateOrganization)
		api.GET("/organizations/:id/users", s.ListOrganizationUsers)

		api.POST("/books", s.ProvisionBook)
		api.GET("/books/organization/:orgId", s.ListBooks)
		api.GET("/books/:bookId/settings", s.GetBookSettings)
		api.PUT("/books/:bookId/settings", s.UpdateBookSettings)

		api.POST("/accounts", s.CreateAccount)
		api.GET("/accounts/book/:bookId", s.ListAccounts)

		api.GET("/currencies/standard", s.ListStandardCurrencies)
		api.POST("/commodities", s.CreateCommodity)
		api.GET("/commodities/book/:bookId", s.ListCommodities)

		api.POST("/taxes", s.CreateTaxTable)
		api.GET("/taxes/book/:bookId", s.ListTaxTables)
		api.GET("/taxes/:id/rate", s.TaxTableRate)

		api.POST("/user-roles", s.AssignUserRole)
		api.GET("/user-roles/user/:userId", s.ListUserRoles)
		api.PUT("/user-roles/:id", s.UpdateUserRole)
		api.DELETE("/user-roles/:id", s.RemoveUserRole)
	}
}
