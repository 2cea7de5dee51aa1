package handlers

import (
	"net/http"

	"github.com/apodata/apodata/backend-go/internal/api/middleware"
	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/apodata/apodata/backend-go/internal/session"
	"github.com/gin-gonic/gin"
)

type PeriodHandler struct {
	sessions *session.Registry
}

func NewPeriodHandler(sessions *session.Registry) *PeriodHandler {
	return &PeriodHandler{sessions: sessions}
}

type optionsResponse struct {
	Ranges      []period.Option `json:"ranges"`
	Comparisons []period.Option `json:"comparisons"`
}

// GetPeriod returns the session's period state. Period params in the query
// are applied the way a page load would apply them.
func (h *PeriodHandler) GetPeriod(c *gin.Context) {
	store := h.sessions.Store(middleware.SessionID(c))
	state := store.Init(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, state.View())
}

// UpdatePrimary selects a new primary period. The request query is the
// client's current location; the response carries its replacement.
func (h *PeriodHandler) UpdatePrimary(c *gin.Context) {
	var req domain.PeriodUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range is required"})
		return
	}

	preset, err := period.ParsePreset(req.Range)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nav := session.NewQueryNavigator(c.Request.URL.Query())
	store := h.sessions.Store(middleware.SessionID(c))
	state := store.SetPrimaryRange(c.Request.Context(), nav, preset, req.StartDate, req.EndDate)

	c.JSON(http.StatusOK, domain.PeriodUpdateResponse{
		Period: state.View(),
		Query:  nav.Encode(),
	})
}

// UpdateComparison selects a new comparison period.
func (h *PeriodHandler) UpdateComparison(c *gin.Context) {
	var req domain.PeriodUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range is required"})
		return
	}

	typ, err := period.ParseComparison(req.Range)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nav := session.NewQueryNavigator(c.Request.URL.Query())
	store := h.sessions.Store(middleware.SessionID(c))
	state := store.SetComparisonRange(c.Request.Context(), nav, typ, req.StartDate, req.EndDate)

	c.JSON(http.StatusOK, domain.PeriodUpdateResponse{
		Period: state.View(),
		Query:  nav.Encode(),
	})
}

func (h *PeriodHandler) GetOptions(c *gin.Context) {
	ranges, comparisons := period.Options()
	c.JSON(http.StatusOK, optionsResponse{Ranges: ranges, Comparisons: comparisons})
}
