package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/pkg/config"
	"github.com/gudang-labs/warehouse-dashboard/pkg/logger"
	corsmiddleware "github.com/gudang-labs/warehouse-dashboard/pkg/middleware/cors"
	reqidmiddleware "github.com/gudang-labs/warehouse-dashboard/pkg/middleware/requestid"
)

// Server is the development API the dashboard client talks to. It speaks
// the same wire contract as the production backend.
type Server struct {
	router *gin.Engine
}

// NewServer assembles services, handlers and routes over the repository.
func NewServer(cfg config.MockConfig, repo repository.Repository, logr *zap.Logger) *Server {
	if logr == nil {
		logr = zap.NewNop()
	}

	tokens := NewTokenService(TokenConfig{
		Secret:             cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
	})
	stats := NewStatsService(repo, cfg.DailyTarget)

	authHandler := NewAuthHandler(NewAuthService(repo, tokens, logr))
	userHandler := NewUserHandler(NewUserService(repo))
	logHandler := NewLogHandler(NewLogService(repo, stats))
	statsHandler := NewStatsHandler(stats)
	reportHandler := NewReportHandler(stats)
	metrics := NewMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh-token", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(RequireAuth(tokens))

	authed.GET("/users/me", authHandler.Me)
	authed.GET("/users", userHandler.List)
	authed.POST("/users", userHandler.Create)
	authed.PUT("/users/:id", userHandler.Update)
	authed.DELETE("/users/:id", userHandler.Delete)

	authed.GET("/daily-logs", logHandler.List)
	authed.POST("/daily-logs", logHandler.Create)
	authed.GET("/daily-logs/:id", logHandler.Get)
	authed.PUT("/daily-logs/:id", logHandler.Update)
	authed.DELETE("/daily-logs/:id", logHandler.Delete)

	authed.GET("/overview/counts", statsHandler.Counts)
	authed.GET("/overview/trend", statsHandler.Trend)
	authed.GET("/overview/recent-logs", statsHandler.RecentLogs)
	authed.GET("/overview/bar-productivity", statsHandler.BarProductivity)

	authed.GET("/insights/worker-present", statsHandler.WorkerPresence)
	authed.GET("/insights/trend-item", statsHandler.TrendItem)
	authed.GET("/insights/worker-performance", statsHandler.WorkerPerformance)

	authed.GET("/top-performers", statsHandler.TopPerformers)

	authed.GET("/reports/filter", reportHandler.Filter)
	authed.GET("/reports/export", reportHandler.Export)

	return &Server{router: r}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
