package loader

import (
	"context"
)

// BuildNodeUpsert turns a normalized record into the node merge for it.
func BuildNodeUpsert(id Identity, rec Record) NodeUpsert {
	props := rec.Properties()
	if !id.HasID {
		return NodeUpsert{Label: id.Label, Properties: id.fallbackProperties(props)}
	}
	delete(props, id.IDField)
	return NodeUpsert{
		Label:      id.Label,
		IDField:    id.IDField,
		IDValue:    id.IDValue,
		Properties: props,
	}
}

func (l *Loader) loadNode(ctx context.Context, rec Record, stats *Stats) error {
	id, err := ResolveID(l.log, rec)
	if err != nil {
		return err
	}
	u := BuildNodeUpsert(id, rec)
	l.log.Debug("upsert node", "label", u.Label, "id_field", u.IDField, "id", u.IDValue, "properties", len(u.Properties))

	created, err := l.store.UpsertNode(ctx, u)
	if err != nil {
		return &StoreError{Op: "upsert_node", Label: u.Label, Cause: err}
	}
	stats.addNodes(u.Label, created)
	return nil
}
