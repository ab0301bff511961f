package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/account"
	"github.com/smallbiznis/booksd/internal/auth"
	"github.com/smallbiznis/booksd/internal/authorization"
	"github.com/smallbiznis/booksd/internal/book"
	"github.com/smallbiznis/booksd/internal/commodity"
	"github.com/smallbiznis/booksd/internal/config"
	"github.com/smallbiznis/booksd/internal/logger"
	"github.com/smallbiznis/booksd/internal/migration"
	"github.com/smallbiznis/booksd/internal/organization"
	"github.com/smallbiznis/booksd/internal/server"
	"github.com/smallbiznis/booksd/internal/tax"
	"github.com/smallbiznis/booksd/internal/userrole"
	"github.com/smallbiznis/booksd/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		organization.Module,
		userrole.Module,
		authorization.Module,
		auth.Module,
		book.Module,
		account.Module,
		commodity.Module,
		tax.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
