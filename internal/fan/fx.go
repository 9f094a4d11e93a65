package fan

import (
	"github.com/personacoreio/personacore/internal/fan/repository"
	"github.com/personacoreio/personacore/internal/fan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
