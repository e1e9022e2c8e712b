package tsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadMapsHeaderToCells(t *testing.T) {
	in := "type\tcase_id\tstudy.clinical_study_designation\n" +
		"case\t1\tSTUDY1\n" +
		"\n" +
		"case\t2\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: want=%d got=%d", 2, len(rows))
	}
	if rows[0].Line != 2 {
		t.Fatalf("line[0]: want=%d got=%d", 2, rows[0].Line)
	}
	if got := rows[0].Fields["study.clinical_study_designation"]; got != "STUDY1" {
		t.Fatalf("reference cell: want=%q got=%q", "STUDY1", got)
	}
	if rows[1].Line != 4 {
		t.Fatalf("line[1]: want=%d got=%d", 4, rows[1].Line)
	}
	v, ok := rows[1].Fields["study.clinical_study_designation"]
	if !ok || v != "" {
		t.Fatalf("short row: want empty present cell, got=%q ok=%v", v, ok)
	}
}

func TestReadDropsExtraCells(t *testing.T) {
	rows, err := Read(strings.NewReader("type\tname\nstudy\tA\textra\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows[0].Fields) != 2 {
		t.Fatalf("fields: want=%d got=%d", 2, len(rows[0].Fields))
	}
}

func TestReadEmptyInput(t *testing.T) {
	rows, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows: want=0 got=%d", len(rows))
	}
}

func TestGlobSortsTxtFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("type\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	files, err := Glob(dir)
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.txt" || filepath.Base(files[1]) != "b.txt" {
		t.Fatalf("Glob: got=%v", files)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("ReadFile: expected error, got nil")
	}
}

func TestReadTrimsHeaderAndKeepsRightmostDuplicate(t *testing.T) {
	rows, err := Read(strings.NewReader(" type \tname\t name \ncase\tAlice\tBob\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	f := rows[0].Fields
	if len(f) != 2 || f["type"] != "case" || f["name"] != "Bob" {
		t.Fatalf("fields: got=%v", f)
	}
}
