package app

import (
	"context"
	"fmt"

	"github.com/yungbote/graphloader/internal/data/graph"
	"github.com/yungbote/graphloader/internal/loader"
	"github.com/yungbote/graphloader/internal/observability"
	"github.com/yungbote/graphloader/internal/platform/logger"
	"github.com/yungbote/graphloader/internal/platform/neo4jdb"
	"github.com/yungbote/graphloader/internal/schema"
	"github.com/yungbote/graphloader/internal/tsv"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Schema *schema.Schema
	Neo4j  *neo4jdb.Client
	Store  *graph.Store

	otelShutdown func(context.Context) error
}

// New wires logging, tracing, the schema and the Neo4j store. A Neo4j
// connectivity failure is returned before any load is attempted.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Log: log.With("service", "graphloader"), Cfg: cfg}
	a.Log.Debug("config loaded",
		"data_dir", cfg.DataDir,
		"schemas", cfg.SchemaFiles,
		"uri", cfg.Neo4j.URI,
		"user", cfg.Neo4j.User,
		"password", cfg.Neo4j.Password,
	)

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{ServiceName: "graphloader"})

	a.Schema, err = schema.Load(a.Log, cfg.SchemaFiles...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load schema: %w", err)
	}
	a.Log.Info("schema loaded", "nodes", len(a.Schema.Nodes()))

	a.Neo4j, err = neo4jdb.New(ctx, a.Log, cfg.Neo4j)
	if err != nil {
		a.Log.Error("can't connect to Neo4j server", "uri", cfg.Neo4j.URI, "error", err)
		a.Close()
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}

	a.Store, err = graph.NewStore(ctx, a.Neo4j, a.Log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	return a, nil
}

// Run loads every *.txt extract in the configured data directory.
func (a *App) Run(ctx context.Context) (*loader.Stats, error) {
	files, err := tsv.Glob(a.Cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("list data files: %w", err)
	}
	if len(files) == 0 {
		a.Log.Warn("no .txt files found", "data_dir", a.Cfg.DataDir)
	}
	l := loader.New(a.Log, a.Schema, a.Store, loader.Options{EnsureIndexes: a.Cfg.EnsureIndexes})
	return l.Load(ctx, loader.FileSources(files))
}

func (a *App) Close() {
	ctx := context.Background()
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			a.Log.Warn("close store", "error", err)
		}
	}
	if a.Neo4j != nil {
		if err := a.Neo4j.Close(ctx); err != nil {
			a.Log.Warn("close neo4j driver", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.Log.Sync()
}
