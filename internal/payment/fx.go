package payment

import (
	"github.com/personacoreio/personacore/internal/payment/adapters"
	"github.com/personacoreio/personacore/internal/payment/adapters/stripe"
	"github.com/personacoreio/personacore/internal/payment/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
	fx.Provide(func() *adapters.Registry {
		return adapters.NewRegistry(
			stripe.NewFactory(),
		)
	}),
)
