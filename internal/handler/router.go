package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"entrypass-engine/internal/handler/api"
	"entrypass-engine/internal/handler/middleware"
	"entrypass-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	travelerHandler *api.TravelerHandler,
	entryHandler *api.EntryHandler,
	warningHandler *api.WarningHandler,
	systemHandler *api.SystemHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, travelerHandler, entryHandler, warningHandler, systemHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	travelerHandler *api.TravelerHandler,
	entryHandler *api.EntryHandler,
	warningHandler *api.WarningHandler,
	systemHandler *api.SystemHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		traveler := apiGroup.Group("/traveler")
		traveler.Use(authMiddleware.RequireAuth())
		{
			addRoutes(traveler, []route{
				{Method: http.MethodPut, Path: "/passport", Handler: travelerHandler.SavePassport},
				{Method: http.MethodPut, Path: "/personal-info", Handler: travelerHandler.SavePersonalInfo},
				{Method: http.MethodPut, Path: "/funds", Handler: travelerHandler.SaveFunds},
				{Method: http.MethodPut, Path: "/travel-info/:destinationId", Handler: travelerHandler.SaveTravelInfo},
				{Method: http.MethodPut, Path: "/notification-preferences/:destinationId", Handler: travelerHandler.SaveNotificationPreference},
			})
		}

		entries := apiGroup.Group("/entries")
		entries.Use(authMiddleware.RequireAuth())
		{
			addRoutes(entries, []route{
				{Method: http.MethodPost, Path: "", Handler: entryHandler.CreateEntry},
				{Method: http.MethodGet, Path: "", Handler: entryHandler.ListEntries},
				{Method: http.MethodGet, Path: "/readiness/:destinationId", Handler: entryHandler.GetReadiness},
				{Method: http.MethodGet, Path: "/:id", Handler: entryHandler.GetEntry},
				{Method: http.MethodPut, Path: "/:id/arrival-date", Handler: entryHandler.SetArrivalDate},
				{Method: http.MethodPost, Path: "/:id/submit", Handler: entryHandler.Submit},
				{Method: http.MethodPost, Path: "/:id/remind-later", Handler: warningHandler.RemindLater},
			})
		}

		warnings := apiGroup.Group("/warnings")
		warnings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(warnings, []route{
				{Method: http.MethodGet, Path: "", Handler: warningHandler.ListWarnings},
				{Method: http.MethodPost, Path: "/:id/resubmit", Handler: warningHandler.ResubmitNow},
				{Method: http.MethodPost, Path: "/:id/acknowledge", Handler: warningHandler.Acknowledge},
				{Method: http.MethodDelete, Path: "/:id", Handler: warningHandler.Ignore},
			})
		}

		system := apiGroup.Group("/system")
		system.Use(authMiddleware.RequireAuth())
		{
			addRoutes(system, []route{
				{Method: http.MethodGet, Path: "/stats", Handler: systemHandler.GetStats},
				{Method: http.MethodPost, Path: "/stats/reset", Handler: systemHandler.ResetStats},
				{Method: http.MethodPost, Path: "/cache/clear", Handler: systemHandler.ClearCache},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
