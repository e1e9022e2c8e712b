// Package schema loads graph model definitions and answers which
// relationship connects two node labels.
package schema

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/graphloader/internal/platform/logger"
)

type modelFile struct {
	Nodes         map[string]yaml.Node       `yaml:"Nodes"`
	Relationships map[string]relationshipDef `yaml:"Relationships"`
}

type relationshipDef struct {
	Mul  string   `yaml:"Mul"`
	Ends []endDef `yaml:"Ends"`
}

type endDef struct {
	Src string `yaml:"Src"`
	Dst string `yaml:"Dst"`
	Mul string `yaml:"Mul"`
}

type pair struct {
	src string
	dst string
}

type Schema struct {
	log   *logger.Logger
	nodes map[string]struct{}
	rels  map[pair]string
}

func New(log *logger.Logger) *Schema {
	if log == nil {
		log = logger.NewNop()
	}
	return &Schema{
		log:   log.With("component", "Schema"),
		nodes: map[string]struct{}{},
		rels:  map[pair]string{},
	}
}

// Load reads and merges the given model files in order.
func Load(log *logger.Logger, paths ...string) (*Schema, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("schema: no model files given")
	}
	s := New(log)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", p, err)
		}
		if err := s.Add(data); err != nil {
			return nil, fmt.Errorf("schema: %s: %w", p, err)
		}
		s.log.Info("schema file loaded", "file", p)
	}
	return s, nil
}

// Add merges one YAML model document. For a Src/Dst pair declared under more
// than one relationship the first declaration is kept.
func (s *Schema) Add(data []byte) error {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	for name := range mf.Nodes {
		if n := strings.TrimSpace(name); n != "" {
			s.nodes[n] = struct{}{}
		}
	}

	names := make([]string, 0, len(mf.Relationships))
	for name := range mf.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rel := strings.TrimSpace(name)
		if rel == "" {
			continue
		}
		for _, end := range mf.Relationships[name].Ends {
			p := pair{src: strings.TrimSpace(end.Src), dst: strings.TrimSpace(end.Dst)}
			if p.src == "" || p.dst == "" {
				return fmt.Errorf("relationship %s: end with empty Src or Dst", rel)
			}
			if existing, ok := s.rels[p]; ok {
				if existing != rel {
					s.log.Warn("duplicate relationship ends, keeping first", "src", p.src, "dst", p.dst, "kept", existing, "ignored", rel)
				}
				continue
			}
			s.rels[p] = rel
		}
	}
	return nil
}

// Relationship returns the relationship declared from labelA to labelB.
func (s *Schema) Relationship(labelA, labelB string) (string, bool) {
	name, ok := s.rels[pair{src: labelA, dst: labelB}]
	return name, ok
}

// Nodes lists the declared node labels in ascending order.
func (s *Schema) Nodes() []string {
	out := make([]string, 0, len(s.nodes))
	for n := range s.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
