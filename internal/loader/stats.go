package loader

import (
	"fmt"
	"sort"
	"time"
)

// Stats aggregates created counts for one Load call.
type Stats struct {
	NodesCreated         int
	RelationshipsCreated int
	NodesByLabel         map[string]int
	RelationshipsByName  map[string]int
	Elapsed              time.Duration
}

func newStats() *Stats {
	return &Stats{
		NodesByLabel:        map[string]int{},
		RelationshipsByName: map[string]int{},
	}
}

// addNodes records n created nodes. Labels are recorded even when n is zero
// so re-loads still list them in the report.
func (s *Stats) addNodes(label string, n int) {
	s.NodesCreated += n
	s.NodesByLabel[label] += n
}

func (s *Stats) addRelationships(name string, n int) {
	s.RelationshipsCreated += n
	s.RelationshipsByName[name] += n
}

// Summary renders the report lines in ascending label and name order.
func (s *Stats) Summary() []string {
	lines := make([]string, 0, len(s.NodesByLabel)+len(s.RelationshipsByName)+2)
	for _, label := range sortedKeys(s.NodesByLabel) {
		lines = append(lines, fmt.Sprintf("Node: (:%s) loaded: %d", label, s.NodesByLabel[label]))
	}
	for _, name := range sortedKeys(s.RelationshipsByName) {
		lines = append(lines, fmt.Sprintf("Relationship: [:%s] loaded: %d", name, s.RelationshipsByName[name]))
	}
	lines = append(lines,
		fmt.Sprintf("%d nodes and %d relationships loaded!", s.NodesCreated, s.RelationshipsCreated),
		fmt.Sprintf("Loading time: %.2f seconds", s.Elapsed.Seconds()),
	)
	return lines
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
