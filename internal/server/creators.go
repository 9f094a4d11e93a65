package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	fandomain "github.com/personacoreio/personacore/internal/fan/domain"
)

func (s *Server) ListCreators(c *gin.Context) {
	creators, err := s.creatorSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"creators": creators})
}

// CreatorSummary returns the subscriber count and revenue totals for one
// creator's dashboard.
func (s *Server) CreatorSummary(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	summary, err := s.creatorSvc.Summarize(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) GetFanByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		AbortWithError(c, fandomain.ErrInvalidEmail)
		return
	}

	fan, err := s.fanSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fan)
}
