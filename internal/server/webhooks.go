package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/personacoreio/personacore/internal/payment/domain"
	"go.uber.org/zap"
)

// HandleWebhook ingests one payment provider delivery. Providers retry on
// anything but 2xx, so duplicates and ignored event kinds still return 200.
func (s *Server) HandleWebhook(c *gin.Context) {
	provider := strings.TrimSpace(c.Param("provider"))
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	result, err := s.provisioningSvc.IngestWebhook(c.Request.Context(), provider, payload, c.Request.Header)
	if err != nil {
		status := webhookErrorStatus(err)
		if status == http.StatusOK {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.log.Debug("webhook acknowledged",
		zap.String("run_id", result.RunID),
		zap.String("state", string(result.State)),
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func webhookErrorStatus(err error) int {
	switch {
	case errors.Is(err, paymentdomain.ErrEventAlreadyProcessed):
		return http.StatusOK
	case errors.Is(err, paymentdomain.ErrProviderNotFound),
		errors.Is(err, paymentdomain.ErrInvalidProvider),
		errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, paymentdomain.ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
