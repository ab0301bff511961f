package userrole

import (
	"github.com/smallbiznis/booksd/internal/userrole/repository"
	"github.com/smallbiznis/booksd/internal/userrole/service"
	"go.uber.org/fx"
)

var Module = fx.Module("userrole.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
