// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/apodata/apodata/backend-go/internal/analytics"
	"github.com/apodata/apodata/backend-go/internal/api/handlers"
	"github.com/apodata/apodata/backend-go/internal/api/middleware"
	"github.com/apodata/apodata/backend-go/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Sessions  *session.Registry
	Analytics *analytics.Service
	Session   middleware.SessionConfig
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if services != nil && services.Sessions != nil {
			body["sessions"] = services.Sessions.Len()
		}
		c.JSON(http.StatusOK, body)
	})

	var sessionCfg middleware.SessionConfig
	if services != nil {
		sessionCfg = services.Session
	}
	apiGroup := router.Group("/api/v1", middleware.Session(sessionCfg), middleware.Logger())

	if services != nil && services.Sessions != nil {
		periodHandler := handlers.NewPeriodHandler(services.Sessions)
		periodGroup := apiGroup.Group("/period")
		{
			periodGroup.GET("", periodHandler.GetPeriod)
			periodGroup.GET("/options", periodHandler.GetOptions)
			periodGroup.PUT("/primary", periodHandler.UpdatePrimary)
			periodGroup.PUT("/comparison", periodHandler.UpdateComparison)
		}

		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics, services.Sessions)
			apiGroup.GET("/analytics/dashboard", analyticsHandler.GetDashboard)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
