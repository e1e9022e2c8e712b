package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/graphloader/internal/loader"
	"github.com/yungbote/graphloader/internal/platform/logger"
	"github.com/yungbote/graphloader/internal/platform/neo4jdb"
)

// Store implements loader.Store on a single long-lived write session. Every
// call is one auto-commit statement, so each merge is atomic server-side.
type Store struct {
	session neo4j.SessionWithContext
	log     *logger.Logger
}

func NewStore(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) (*Store, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph: neo4j client required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		session: client.WriteSession(ctx),
		log:     log.With("component", "Neo4jStore"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.session == nil {
		return nil
	}
	err := s.session.Close(ctx)
	s.session = nil
	return err
}

func (s *Store) UpsertNode(ctx context.Context, u loader.NodeUpsert) (int, error) {
	q, params, err := buildNodeUpsert(u)
	if err != nil {
		return 0, err
	}
	summary, err := s.exec(ctx, q, params)
	if err != nil {
		return 0, err
	}
	return summary.Counters().NodesCreated(), nil
}

func (s *Store) CountNodes(ctx context.Context, label, field, value string) (int, error) {
	q, params, err := buildCountNodes(label, field, value)
	if err != nil {
		return 0, err
	}
	s.log.Debug(q)
	res, err := s.session.Run(ctx, q, params)
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	raw, _ := rec.Get("matches")
	n, ok := raw.(int64)
	if !ok {
		return 0, fmt.Errorf("graph: unexpected count type %T", raw)
	}
	return int(n), nil
}

func (s *Store) UpsertRelationship(ctx context.Context, u loader.RelationshipUpsert) (int, error) {
	q, params, err := buildRelationshipUpsert(u)
	if err != nil {
		return 0, err
	}
	summary, err := s.exec(ctx, q, params)
	if err != nil {
		return 0, err
	}
	return summary.Counters().RelationshipsCreated(), nil
}

func (s *Store) EnsureIndex(ctx context.Context, label, field string) error {
	l, err := quoteIdent(label)
	if err != nil {
		return err
	}
	f, err := quoteIdent(field)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.%s)", l, f), nil)
	return err
}

func (s *Store) exec(ctx context.Context, q string, params map[string]any) (neo4j.ResultSummary, error) {
	s.log.Debug(q)
	res, err := s.session.Run(ctx, q, params)
	if err != nil {
		return nil, err
	}
	return res.Consume(ctx)
}

func buildNodeUpsert(u loader.NodeUpsert) (string, map[string]any, error) {
	label, err := quoteIdent(u.Label)
	if err != nil {
		return "", nil, err
	}
	if u.IDField == "" {
		pattern, params, err := propertyPattern("p", u.Properties)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("MERGE (n:%s%s)", label, pattern), params, nil
	}

	idField, err := quoteIdent(u.IDField)
	if err != nil {
		return "", nil, err
	}
	for k := range u.Properties {
		if _, err := quoteIdent(k); err != nil {
			return "", nil, err
		}
	}
	props := make(map[string]any, len(u.Properties))
	for k, v := range u.Properties {
		props[k] = v
	}
	// SET after MERGE applies on create and on match alike.
	q := fmt.Sprintf("MERGE (n:%s {%s: $id}) SET n += $props", label, idField)
	return q, map[string]any{"id": u.IDValue, "props": props}, nil
}

func buildCountNodes(label, field, value string) (string, map[string]any, error) {
	l, err := quoteIdent(label)
	if err != nil {
		return "", nil, err
	}
	f, err := quoteIdent(field)
	if err != nil {
		return "", nil, err
	}
	q := fmt.Sprintf("MATCH (m:%s {%s: $value}) RETURN count(m) AS matches", l, f)
	return q, map[string]any{"value": value}, nil
}

func buildRelationshipUpsert(u loader.RelationshipUpsert) (string, map[string]any, error) {
	srcLabel, err := quoteIdent(u.Source.Label)
	if err != nil {
		return "", nil, err
	}
	dstLabel, err := quoteIdent(u.Target.Label)
	if err != nil {
		return "", nil, err
	}
	rel, err := quoteIdent(u.Name)
	if err != nil {
		return "", nil, err
	}
	srcPattern, params, err := propertyPattern("s", u.Source.Properties)
	if err != nil {
		return "", nil, err
	}
	dstPattern, dstParams, err := propertyPattern("t", u.Target.Properties)
	if err != nil {
		return "", nil, err
	}
	for k, v := range dstParams {
		params[k] = v
	}
	q := fmt.Sprintf("MATCH (n:%s%s) MATCH (m:%s%s) MERGE (n)-[:%s]->(m)",
		srcLabel, srcPattern, dstLabel, dstPattern, rel)
	return q, params, nil
}

// propertyPattern renders " {`k1`: $p0, `k2`: $p1}" with keys in ascending
// order. An empty map renders nothing.
func propertyPattern(prefix string, props map[string]string) (string, map[string]any, error) {
	params := make(map[string]any, len(props))
	if len(props) == 0 {
		return "", params, nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		qk, err := quoteIdent(k)
		if err != nil {
			return "", nil, err
		}
		name := fmt.Sprintf("%s%d", prefix, i)
		parts = append(parts, fmt.Sprintf("%s: $%s", qk, name))
		params[name] = props[k]
	}
	return " {" + strings.Join(parts, ", ") + "}", params, nil
}

// quoteIdent backtick-quotes a label, property key or relationship type.
// These cannot be passed as query parameters.
func quoteIdent(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("graph: empty identifier")
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`", nil
}
