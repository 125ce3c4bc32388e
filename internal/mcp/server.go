package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, actor string, p project.Payload) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]*project.Project, error)
	Update(ctx context.Context, actor, id string, p project.Payload, expectedVersion *int64) (*project.UpdateResult, error)
	Delete(ctx context.Context, actor, id string) error
	Overview(ctx context.Context) (*project.Overview, error)
	TimelineProgress(ctx context.Context) (*project.TimelineReport, error)
}

// AuditService defines audit history reads needed by MCP.
type AuditService interface {
	History(ctx context.Context, filter audit.Filter) ([]audit.Record, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Audit    AuditService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// DefaultActor is used when a request names no actor.
	DefaultActor string
	Version      string
	Logger       *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "project-registry",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(actorMiddleware(cfg.DefaultActor))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
