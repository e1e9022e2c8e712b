package loader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/graphloader/internal/platform/logger"
)

const tracerName = "github.com/yungbote/graphloader/internal/loader"

type Options struct {
	// EnsureIndexes creates an index on each label's id field before the
	// node phase when the store supports it.
	EnsureIndexes bool
}

// Loader upserts the records of tab-delimited extracts into a graph store:
// every node of every source first, then every relationship.
type Loader struct {
	log    *logger.Logger
	schema SchemaProvider
	store  Store
	opts   Options
	tracer trace.Tracer
}

func New(log *logger.Logger, schema SchemaProvider, store Store, opts Options) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{
		log:    log.With("component", "Loader"),
		schema: schema,
		store:  store,
		opts:   opts,
		tracer: otel.Tracer(tracerName),
	}
}

// Load validates every source, then loads nodes from all sources, then
// relationships from all sources, and logs the statistics. Nothing is written
// if validation fails. Errors after validation leave earlier writes in place.
func (l *Loader) Load(ctx context.Context, sources []Source) (*Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	runID := uuid.New()
	log := l.log.With("run_id", runID.String())

	ctx, span := l.tracer.Start(ctx, "loader.load", trace.WithAttributes(
		attribute.String("run_id", runID.String()),
		attribute.Int("sources", len(sources)),
	))
	defer span.End()

	labels, err := l.validate(ctx, log, sources)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	if l.opts.EnsureIndexes {
		l.ensureIndexes(ctx, log, labels)
	}

	stats := newStats()
	if err := l.phase(ctx, log, "nodes", sources, stats, l.loadNode); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "node phase failed")
		return stats, err
	}
	if err := l.phase(ctx, log, "relationships", sources, stats, l.loadRelationships); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relationship phase failed")
		return stats, err
	}

	stats.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("nodes_created", stats.NodesCreated),
		attribute.Int("relationships_created", stats.RelationshipsCreated),
	)
	for _, line := range stats.Summary() {
		log.Info(line)
	}
	return stats, nil
}

// validate checks every record of every source and returns the labels seen.
func (l *Loader) validate(ctx context.Context, log *logger.Logger, sources []Source) ([]string, error) {
	_, span := l.tracer.Start(ctx, "loader.validate")
	defer span.End()

	seen := map[string]struct{}{}
	rows := 0
	for _, src := range sources {
		log.Info("validating file", "file", src.Name())
		data, err := src.Rows()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", src.Name(), err)
		}
		for _, row := range data {
			rec := Normalize(row.Fields)
			if err := Validate(rec); err != nil {
				log.Error("invalid data", "file", src.Name(), "line", row.Line, "error", err)
				return nil, &InvalidRecordError{File: src.Name(), Line: row.Line, Err: err}
			}
			seen[rec.Label()] = struct{}{}
			rows++
		}
	}
	span.SetAttributes(attribute.Int("rows", rows))

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (l *Loader) ensureIndexes(ctx context.Context, log *logger.Logger, labels []string) {
	ie, ok := l.store.(IndexEnsurer)
	if !ok {
		log.Debug("store does not support indexes, skipping")
		return
	}
	for _, label := range labels {
		field, err := ResolveIDField(label)
		if err != nil {
			continue
		}
		if err := ie.EnsureIndex(ctx, label, field); err != nil {
			log.Warn("ensure index failed (continuing)", "label", label, "field", field, "error", err)
		}
	}
}

type rowFunc func(ctx context.Context, rec Record, stats *Stats) error

func (l *Loader) phase(ctx context.Context, log *logger.Logger, name string, sources []Source, stats *Stats, fn rowFunc) error {
	ctx, span := l.tracer.Start(ctx, "loader."+name)
	defer span.End()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		flog := log.With("file", src.Name())
		flog.Info("loading " + name)
		data, err := src.Rows()
		if err != nil {
			return fmt.Errorf("read %q: %w", src.Name(), err)
		}
		for _, row := range data {
			if err := fn(ctx, Normalize(row.Fields), stats); err != nil {
				flog.Error("load "+name+" failed", "line", row.Line, "error", err)
				return fmt.Errorf("%s: line %d: %w", src.Name(), row.Line, err)
			}
		}
	}
	span.SetAttributes(
		attribute.Int("nodes_created", stats.NodesCreated),
		attribute.Int("relationships_created", stats.RelationshipsCreated),
	)
	return nil
}
