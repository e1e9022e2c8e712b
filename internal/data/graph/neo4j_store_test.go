package graph

import (
	"testing"

	"github.com/yungbote/graphloader/internal/loader"
)

func TestBuildNodeUpsertWithID(t *testing.T) {
	q, params, err := buildNodeUpsert(loader.NodeUpsert{
		Label:      "case",
		IDField:    "case_id",
		IDValue:    "1",
		Properties: map[string]string{"name": "Alice"},
	})
	if err != nil {
		t.Fatalf("buildNodeUpsert: %v", err)
	}
	want := "MERGE (n:`case` {`case_id`: $id}) SET n += $props"
	if q != want {
		t.Fatalf("query: want=%q got=%q", want, q)
	}
	if params["id"] != "1" {
		t.Fatalf("id param: want=%q got=%v", "1", params["id"])
	}
	props, ok := params["props"].(map[string]any)
	if !ok || props["name"] != "Alice" || len(props) != 1 {
		t.Fatalf("props param: got=%v", params["props"])
	}
}

func TestBuildNodeUpsertFallbackIdentity(t *testing.T) {
	q, params, err := buildNodeUpsert(loader.NodeUpsert{
		Label:      "demographic",
		Properties: map[string]string{"sex": "F", "breed": "Beagle"},
	})
	if err != nil {
		t.Fatalf("buildNodeUpsert: %v", err)
	}
	want := "MERGE (n:`demographic` {`breed`: $p0, `sex`: $p1})"
	if q != want {
		t.Fatalf("query: want=%q got=%q", want, q)
	}
	if params["p0"] != "Beagle" || params["p1"] != "F" {
		t.Fatalf("params: got=%v", params)
	}
}

func TestBuildNodeUpsertQuotesHostileNames(t *testing.T) {
	q, params, err := buildNodeUpsert(loader.NodeUpsert{
		Label:      "x`) DETACH DELETE n //",
		Properties: map[string]string{"name": `"}) MATCH (z) DELETE z //`},
	})
	if err != nil {
		t.Fatalf("buildNodeUpsert: %v", err)
	}
	want := "MERGE (n:`x``) DETACH DELETE n //` {`name`: $p0})"
	if q != want {
		t.Fatalf("query: want=%q got=%q", want, q)
	}
	if params["p0"] != `"}) MATCH (z) DELETE z //` {
		t.Fatalf("value must travel as a parameter, got=%v", params["p0"])
	}
}

func TestBuildNodeUpsertRejectsEmptyIdentifiers(t *testing.T) {
	if _, _, err := buildNodeUpsert(loader.NodeUpsert{Label: ""}); err == nil {
		t.Fatalf("empty label: expected error, got nil")
	}
	if _, _, err := buildNodeUpsert(loader.NodeUpsert{Label: "case", IDField: "case_id", Properties: map[string]string{" ": "x"}}); err == nil {
		t.Fatalf("empty property key: expected error, got nil")
	}
}

func TestBuildCountNodes(t *testing.T) {
	q, params, err := buildCountNodes("study", "clinical_study_designation", "STUDY1")
	if err != nil {
		t.Fatalf("buildCountNodes: %v", err)
	}
	want := "MATCH (m:`study` {`clinical_study_designation`: $value}) RETURN count(m) AS matches"
	if q != want {
		t.Fatalf("query: want=%q got=%q", want, q)
	}
	if params["value"] != "STUDY1" {
		t.Fatalf("value param: got=%v", params["value"])
	}
}

func TestBuildRelationshipUpsert(t *testing.T) {
	q, params, err := buildRelationshipUpsert(loader.RelationshipUpsert{
		Source: loader.NodeMatch{Label: "case", Properties: map[string]string{"case_id": "1"}},
		Target: loader.NodeMatch{Label: "study", Properties: map[string]string{"clinical_study_designation": "STUDY1"}},
		Name:   "OF_STUDY",
	})
	if err != nil {
		t.Fatalf("buildRelationshipUpsert: %v", err)
	}
	want := "MATCH (n:`case` {`case_id`: $s0}) MATCH (m:`study` {`clinical_study_designation`: $t0}) MERGE (n)-[:`OF_STUDY`]->(m)"
	if q != want {
		t.Fatalf("query: want=%q got=%q", want, q)
	}
	if params["s0"] != "1" || params["t0"] != "STUDY1" || len(params) != 2 {
		t.Fatalf("params: got=%v", params)
	}
}
