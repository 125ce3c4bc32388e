package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/metrics"
	"github.com/ganot/project-registry/internal/sqlite"
)

// app holds the opened database and the services built on it.
type app struct {
	db       *sqlite.DB
	projects *project.Service
	audit    *audit.Service
}

// openApp opens and migrates the database and builds the services. A nil
// reg disables metrics.
func openApp(dbPath string, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	if err := ensureDBDir(dbPath); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	var opts []project.Option
	if reg != nil {
		opts = append(opts, project.WithMetrics(metrics.New(reg)))
	}
	return &app{
		db:       db,
		projects: project.NewService(sqlite.NewStore(db), logger, opts...),
		audit:    audit.NewService(sqlite.NewAuditRepository(db), logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
