package provisioning

import (
	"github.com/personacoreio/personacore/internal/provisioning/service"
	"go.uber.org/fx"
)

var Module = fx.Module("provisioning.service",
	fx.Provide(service.NewMetrics),
	fx.Provide(service.New),
)
