// Package notifier builds and delivers the post-checkout welcome email with
// its one-time sign-in link. Everything here is best effort: callers log
// failures and move on.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/personacoreio/personacore/internal/config"
	identitydomain "github.com/personacoreio/personacore/internal/identity/domain"
	"github.com/personacoreio/personacore/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #667eea;">Welcome to PersonaCore!</h2>
  <p>You've successfully subscribed to chat with <strong>{{.CreatorName}}</strong>.</p>

  <div style="background: #f5f5f7; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 0;"><strong>Your username:</strong> {{.Username}}</p>
    <p style="margin: 5px 0 0 0; font-size: 0.9em; color: #666;">You can change this anytime in your settings</p>
  </div>

  <p>Click the button below to start chatting:</p>

  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 28px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; text-decoration: none; border-radius: 25px; font-weight: 600;">Start Chatting with {{.CreatorName}}</a>
  </div>

  <p style="color: #666; font-size: 0.9em;">Or copy this link: {{.LoginURL}}</p>
  <p style="color: #999; font-size: 0.85em;">This link will expire in 24 hours.</p>
</div>
`))

type Params struct {
	fx.In

	Log         *zap.Logger
	Cfg         config.Config
	IdentitySvc identitydomain.Service
	Email       email.Provider
}

type Service struct {
	log         *zap.Logger
	baseURL     string
	identitySvc identitydomain.Service
	email       email.Provider
}

func New(p Params) *Service {
	return &Service{
		log:         p.Log.Named("notifier"),
		baseURL:     p.Cfg.BaseURL,
		identitySvc: p.IdentitySvc,
		email:       p.Email,
	}
}

// SendWelcome issues a one-time login link scoped to the creator's chat and
// mails it to the fan.
func (s *Service) SendWelcome(ctx context.Context, fanEmail, username, creatorName, creatorSlug string) error {
	redirect := fmt.Sprintf("%s/chat?creator=%s", s.baseURL, url.QueryEscape(creatorSlug))
	loginURL, err := s.identitySvc.IssueLoginToken(ctx, fanEmail, redirect)
	if err != nil {
		return fmt.Errorf("issue login token: %w", err)
	}

	var body bytes.Buffer
	err = welcomeTemplate.Execute(&body, map[string]string{
		"CreatorName": creatorName,
		"Username":    username,
		"LoginURL":    loginURL,
	})
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	subject := fmt.Sprintf("Welcome to PersonaCore - Chat with %s", creatorName)
	if err := s.email.Send(ctx, []string{fanEmail}, subject, body.String()); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	s.log.Info("welcome email sent",
		zap.String("email", fanEmail),
		zap.String("creator_slug", creatorSlug),
	)
	return nil
}

// SendLoginLink mails a plain sign-in link, used by the login endpoint.
func (s *Service) SendLoginLink(ctx context.Context, fanEmail, redirectPath string) error {
	redirect := s.baseURL + redirectPath
	loginURL, err := s.identitySvc.IssueLoginToken(ctx, fanEmail, redirect)
	if err != nil {
		return fmt.Errorf("issue login token: %w", err)
	}

	body := fmt.Sprintf(
		`<p>Click <a href="%s">here</a> to sign in to PersonaCore.</p><p style="color: #999; font-size: 0.85em;">This link will expire in 24 hours.</p>`,
		loginURL,
	)
	if err := s.email.Send(ctx, []string{fanEmail}, "Your PersonaCore sign-in link", body); err != nil {
		return fmt.Errorf("send login email: %w", err)
	}
	return nil
}

var Module = fx.Module("notifier",
	fx.Provide(New),
)
