package book

import (
	"github.com/smallbiznis/booksd/internal/book/repository"
	"github.com/smallbiznis/booksd/internal/book/service"
	"go.uber.org/fx"
)

var Module = fx.Module("book.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
