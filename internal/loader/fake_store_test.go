package loader

import (
	"context"
	"errors"

	"github.com/yungbote/graphloader/internal/tsv"
)

type fakeNode struct {
	label string
	props map[string]string
}

type fakeRel struct {
	from, to int
	name     string
}

// fakeStore mirrors MERGE semantics: a pattern matches any node carrying at
// least the given properties.
type fakeStore struct {
	nodes []*fakeNode
	rels  []fakeRel
	calls []string

	failOn string
}

var errStoreDown = errors.New("store down")

func (f *fakeStore) matching(m NodeMatch) []int {
	var out []int
	for i, n := range f.nodes {
		if n.label != m.Label {
			continue
		}
		ok := true
		for k, v := range m.Properties {
			if got, has := n.props[k]; !has || got != v {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func (f *fakeStore) UpsertNode(_ context.Context, u NodeUpsert) (int, error) {
	f.calls = append(f.calls, "node:"+u.Label)
	if f.failOn == "node" {
		return 0, errStoreDown
	}
	key := NodeMatch{Label: u.Label, Properties: u.Properties}
	if u.IDField != "" {
		key.Properties = map[string]string{u.IDField: u.IDValue}
	}
	idx := f.matching(key)
	created := 0
	if len(idx) == 0 {
		props := map[string]string{}
		for k, v := range key.Properties {
			props[k] = v
		}
		f.nodes = append(f.nodes, &fakeNode{label: u.Label, props: props})
		idx = []int{len(f.nodes) - 1}
		created = 1
	}
	if u.IDField != "" {
		for _, i := range idx {
			for k, v := range u.Properties {
				f.nodes[i].props[k] = v
			}
		}
	}
	return created, nil
}

func (f *fakeStore) CountNodes(_ context.Context, label, field, value string) (int, error) {
	f.calls = append(f.calls, "count:"+label)
	if f.failOn == "count" {
		return 0, errStoreDown
	}
	return len(f.matching(NodeMatch{Label: label, Properties: map[string]string{field: value}})), nil
}

func (f *fakeStore) UpsertRelationship(_ context.Context, u RelationshipUpsert) (int, error) {
	f.calls = append(f.calls, "rel:"+u.Name)
	if f.failOn == "rel" {
		return 0, errStoreDown
	}
	created := 0
	for _, s := range f.matching(u.Source) {
		for _, t := range f.matching(u.Target) {
			if f.hasRel(s, t, u.Name) {
				continue
			}
			f.rels = append(f.rels, fakeRel{from: s, to: t, name: u.Name})
			created++
		}
	}
	return created, nil
}

func (f *fakeStore) hasRel(from, to int, name string) bool {
	for _, r := range f.rels {
		if r.from == from && r.to == to && r.name == name {
			return true
		}
	}
	return false
}

type indexingStore struct {
	fakeStore
	indexes []string
}

func (s *indexingStore) EnsureIndex(_ context.Context, label, field string) error {
	s.indexes = append(s.indexes, label+"."+field)
	return nil
}

type mapSchema map[[2]string]string

func (m mapSchema) Relationship(a, b string) (string, bool) {
	name, ok := m[[2]string{a, b}]
	return name, ok
}

type memSource struct {
	name string
	rows []tsv.Row
	err  error
}

func (m memSource) Name() string { return m.name }
func (m memSource) Rows() ([]tsv.Row, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func source(name string, rows ...map[string]string) memSource {
	src := memSource{name: name}
	for i, r := range rows {
		src.rows = append(src.rows, tsv.Row{Line: i + 2, Fields: r})
	}
	return src
}
