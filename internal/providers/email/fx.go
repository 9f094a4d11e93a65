package email

import (
	"github.com/personacoreio/personacore/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	switch cfg.Email.Provider {
	case "resend":
		return NewResend(ResendConfig{
			APIKey: cfg.Email.ResendAPIKey,
			From:   cfg.Email.From,
		})
	case "noop":
		return &NoOpProvider{}
	default:
		return NewSMTP(SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.From,
		})
	}
}
