// Package testserver runs the full HTTP stack against an in-memory database.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/mcp"
	"github.com/ganot/project-registry/internal/metrics"
	"github.com/ganot/project-registry/internal/sqlite"
	"github.com/ganot/project-registry/internal/transport"
)

// DefaultActor is recorded for requests without an X-Actor header.
const DefaultActor = "test-default"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Registry *prometheus.Registry
}

// New starts a server with a private database and metrics registry.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	projectSvc := project.NewService(sqlite.NewStore(db), nil, project.WithMetrics(metrics.New(reg)))
	auditSvc := audit.NewService(sqlite.NewAuditRepository(db), nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:     mcp.Services{Projects: projectSvc, Audit: auditSvc},
		DefaultActor: DefaultActor,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	router := transport.NewRouter(transport.Config{
		Projects:     projectSvc,
		Audit:        auditSvc,
		MCP:          mcpHandler,
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		DefaultActor: DefaultActor,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Registry: reg}
}

// URL joins path onto the server base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
