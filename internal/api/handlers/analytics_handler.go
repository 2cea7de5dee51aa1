package handlers

import (
	"net/http"

	"github.com/apodata/apodata/backend-go/internal/analytics"
	"github.com/apodata/apodata/backend-go/internal/api/middleware"
	"github.com/apodata/apodata/backend-go/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type AnalyticsHandler struct {
	service  *analytics.Service
	sessions *session.Registry
}

func NewAnalyticsHandler(service *analytics.Service, sessions *session.Registry) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, sessions: sessions}
}

// GetDashboard computes the dashboard for the session's resolved periods.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	store := h.sessions.Store(middleware.SessionID(c))
	state := store.Init(c.Request.Context(), c.Request.URL.Query())

	dashboard, err := h.service.Dashboard(c.Request.Context(), state.Primary.Range, state.Comparison.Range)
	if errors.Is(err, analytics.ErrNoPeriod) || errors.Is(err, analytics.ErrRangeTooLong) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  err.Error(),
			"period": state.View(),
		})
		return
	}
	if err != nil {
		log.Error().Stack().Err(err).Str("session", store.ID()).Msg("failed to compute dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":    state.View(),
		"dashboard": dashboard,
	})
}
