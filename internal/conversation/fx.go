package conversation

import (
	"github.com/personacoreio/personacore/internal/conversation/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("conversation.repository",
	fx.Provide(repository.Provide),
)
