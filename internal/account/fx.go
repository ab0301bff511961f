package account

import (
	"github.com/smallbiznis/booksd/internal/account/repository"
	"github.com/smallbiznis/booksd/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
