package loader

import (
	"context"
)

func (l *Loader) loadRelationships(ctx context.Context, rec Record, stats *Stats) error {
	refs := rec.References()
	if len(refs) == 0 {
		return nil
	}
	id, err := ResolveID(l.log, rec)
	if err != nil {
		return err
	}
	source := id.Match(rec.Properties())

	// Every reference is resolved before anything is written for the row.
	upserts := make([]RelationshipUpsert, 0, len(refs))
	for _, ref := range refs {
		name, ok := l.schema.Relationship(id.Label, ref.Label)
		if !ok || name == "" {
			return &RelationshipNotDefinedError{From: id.Label, To: ref.Label, Column: ref.Column}
		}
		matches, err := l.store.CountNodes(ctx, ref.Label, ref.Field, ref.Value)
		if err != nil {
			return &StoreError{Op: "count_nodes", Label: ref.Label, Cause: err}
		}
		l.log.Debug("reference target probed", "label", ref.Label, "field", ref.Field, "value", ref.Value, "matches", matches)
		switch {
		case matches == 0:
			l.log.Warn("referenced node not found in store", "label", ref.Label, "field", ref.Field, "value", ref.Value, "relationship", name)
		case matches > 1:
			l.log.Warn("more than one referenced node found", "label", ref.Label, "field", ref.Field, "value", ref.Value, "matches", matches, "relationship", name)
		}
		upserts = append(upserts, RelationshipUpsert{
			Source: source,
			Target: NodeMatch{Label: ref.Label, Properties: map[string]string{ref.Field: ref.Value}},
			Name:   name,
		})
	}

	for _, u := range upserts {
		created, err := l.store.UpsertRelationship(ctx, u)
		if err != nil {
			return &StoreError{Op: "upsert_relationship", Label: u.Source.Label, Cause: err}
		}
		stats.addRelationships(u.Name, created)
	}
	return nil
}
