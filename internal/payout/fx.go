package payout

import (
	"github.com/personacoreio/personacore/internal/payout/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.repository",
	fx.Provide(repository.Provide),
)
