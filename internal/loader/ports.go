package loader

import (
	"context"

	"github.com/yungbote/graphloader/internal/tsv"
)

// SchemaProvider answers which relationship connects two labels.
type SchemaProvider interface {
	Relationship(labelA, labelB string) (name string, ok bool)
}

// Store is the graph-store surface the loader mutates. Each call must be a
// single atomic match-or-create on the store side.
type Store interface {
	UpsertNode(ctx context.Context, u NodeUpsert) (created int, err error)
	CountNodes(ctx context.Context, label, field, value string) (matches int, err error)
	UpsertRelationship(ctx context.Context, u RelationshipUpsert) (created int, err error)
}

// IndexEnsurer is implemented by stores that can create lookup indexes.
type IndexEnsurer interface {
	EnsureIndex(ctx context.Context, label, field string) error
}

// Source is a named, re-readable set of raw rows. Each load phase reads it
// again from the start.
type Source interface {
	Name() string
	Rows() ([]tsv.Row, error)
}

// NodeMatch locates nodes by label and exact property values.
type NodeMatch struct {
	Label      string
	Properties map[string]string
}

// NodeUpsert describes one node merge. With IDField set the node is merged on
// that field and Properties are set on both create and match. Without it the
// node is merged on the full Properties bag.
type NodeUpsert struct {
	Label      string
	IDField    string
	IDValue    string
	Properties map[string]string
}

type RelationshipUpsert struct {
	Source NodeMatch
	Target NodeMatch
	Name   string
}

type fileSource struct {
	path string
}

// FileSources wraps tab-delimited files on disk as sources.
func FileSources(paths []string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, fileSource{path: p})
	}
	return out
}

func (f fileSource) Name() string             { return f.path }
func (f fileSource) Rows() ([]tsv.Row, error) { return tsv.ReadFile(f.path) }
