package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/config"
	"github.com/adhamhusein/mio-super-app/internal/api/handler"
	"github.com/adhamhusein/mio-super-app/internal/api/middleware"
	"github.com/adhamhusein/mio-super-app/pkg/jwt"
	"github.com/adhamhusein/mio-super-app/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware attached.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// auth endpoints open to anonymous callers, rate limited per IP
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit, cfg.Server.Window()))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
		}

		// everything else requires a valid access token
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			authorized.GET("/trips", h.Trip.FetchTrips)

			timesheet := authorized.Group("/timesheet")
			{
				// wizard session state
				timesheet.POST("/step1", h.Timesheet.SaveStep1)
				timesheet.GET("/step1", h.Timesheet.GetStep1)
				timesheet.POST("/step2", h.Timesheet.SaveStep2)
				timesheet.GET("/step2", h.Timesheet.GetStep2)
				timesheet.POST("/sort", h.Timesheet.SortTrips)
				timesheet.POST("/clear", h.Timesheet.Clear)

				// trip mutations
				timesheet.POST("/add-trip", h.Trip.AddTrip)
				timesheet.POST("/update-trip", h.Trip.UpdateTrip)
				timesheet.POST("/delete-trip", h.Trip.DeleteTrip)
				timesheet.POST("/restore-trip", h.Trip.RestoreTrip)

				// hour-meter reconciliation
				timesheet.POST("/update-hm", h.Reconciliation.UpdateHM)
				timesheet.POST("/valid-data", h.Reconciliation.ValidateData)
				timesheet.POST("/update-next-hm", h.Reconciliation.UpdateNextHM)
				timesheet.POST("/update-prev-hm", h.Reconciliation.UpdatePrevHM)
				timesheet.POST("/update-shift", h.Reconciliation.UpdateShift)
				timesheet.GET("/step3", h.Reconciliation.RealtimeValidation)
				timesheet.GET("/historical-login", h.Reconciliation.HistoricalLogin)

				// export
				timesheet.GET("/export", h.Export.ExportTimesheet)
			}
		}
	}

	return r
}
