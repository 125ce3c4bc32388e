package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

// ProjectService defines project operations needed by the REST API.
type ProjectService interface {
	Create(ctx context.Context, actor string, p project.Payload) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]*project.Project, error)
	Update(ctx context.Context, actor, id string, p project.Payload, expectedVersion *int64) (*project.UpdateResult, error)
	Delete(ctx context.Context, actor, id string) error
	Overview(ctx context.Context) (*project.Overview, error)
	TimelineProgress(ctx context.Context) (*project.TimelineReport, error)
}

// AuditService defines audit history reads needed by the REST API.
type AuditService interface {
	History(ctx context.Context, filter audit.Filter) ([]audit.Record, error)
}

// Config wires the router.
type Config struct {
	Projects ProjectService
	Audit    AuditService
	// MCP serves the streamable MCP endpoint when set.
	MCP http.Handler
	// Metrics serves the Prometheus scrape endpoint when set.
	Metrics      http.Handler
	DefaultActor string
	Logger       *slog.Logger
}

// Server holds the REST handlers.
type Server struct {
	projects ProjectService
	audit    AuditService
	logger   *slog.Logger
}

// NewRouter creates the HTTP router with middleware.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(ActorMiddleware(cfg.DefaultActor))

	srv := &Server{projects: cfg.Projects, audit: cfg.Audit, logger: logger}

	r.GET("/health", srv.handleHealth)

	projects := r.Group("/projects")
	projects.GET("", srv.handleListProjects)
	projects.POST("", srv.handleCreateProject)
	projects.GET("/:id", srv.handleGetProject)
	projects.PUT("/:id", srv.handleUpdateProject)
	projects.DELETE("/:id", srv.handleDeleteProject)

	r.GET("/audit", srv.handleAuditHistory)

	analytics := r.Group("/analytics")
	analytics.GET("/overview", srv.handleOverview)
	analytics.GET("/timeline", srv.handleTimelineProgress)

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	if cfg.MCP != nil {
		r.Any("/mcp", gin.WrapH(cfg.MCP))
	}
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("actor", actorOf(c)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
