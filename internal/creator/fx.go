package creator

import (
	"github.com/personacoreio/personacore/internal/creator/repository"
	"github.com/personacoreio/personacore/internal/creator/service"
	"go.uber.org/fx"
)

var Module = fx.Module("creator.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
