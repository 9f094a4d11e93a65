package identity

import (
	"github.com/personacoreio/personacore/internal/identity/repository"
	"github.com/personacoreio/personacore/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
