package commodity

import (
	"github.com/smallbiznis/booksd/internal/commodity/repository"
	"github.com/smallbiznis/booksd/internal/commodity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commodity.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
