package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	identitydomain "github.com/personacoreio/personacore/internal/identity/domain"
	"go.uber.org/zap"
)

type fanLoginRequest struct {
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}

// FanLogin mails a one-time sign-in link. The response is identical whether
// or not the email has an account, so it can't be used to probe for accounts.
func (s *Server) FanLogin(c *gin.Context) {
	if s.loginLimiter != nil && !s.loginLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	var req fanLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	redirect := sanitizeRedirectPath(req.Redirect)

	if _, err := s.identitySvc.FindByEmail(c.Request.Context(), email); err == nil {
		if err := s.notifierSvc.SendLoginLink(c.Request.Context(), email, redirect); err != nil {
			s.log.Warn("login link delivery failed",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If an account exists for that email, a sign-in link has been sent.",
	})
}

// AuthCallback burns a login token and redirects the fan to their target.
func (s *Server) AuthCallback(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("token"))
	if raw == "" {
		AbortWithError(c, identitydomain.ErrInvalidToken)
		return
	}

	identity, redirect, err := s.identitySvc.ConsumeLoginToken(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("fan signed in",
		zap.Int64("identity_id", identity.ID.Int64()),
	)

	if redirect == "" {
		redirect = s.cfg.BaseURL
	}
	c.Redirect(http.StatusFound, redirect)
}

// sanitizeRedirectPath keeps login redirects on this host. Anything that is
// not a relative path collapses to the site root.
func sanitizeRedirectPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
