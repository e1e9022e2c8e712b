package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"uri", "bolt://localhost:7687", "neo4j_password", "hunter2", "dangling"})
	if len(got) != 5 {
		t.Fatalf("len: want=%d got=%d", 5, len(got))
	}
	if got[1] != "bolt://localhost:7687" {
		t.Fatalf("uri: want=%q got=%v", "bolt://localhost:7687", got[1])
	}
	if got[3] != "[REDACTED]" {
		t.Fatalf("password: want=%q got=%v", "[REDACTED]", got[3])
	}
	if got[4] != "dangling" {
		t.Fatalf("dangling key: want=%q got=%v", "dangling", got[4])
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]string{
		"":      "debug",
		"info":  "info",
		"WARN":  "warn",
		"error": "error",
		"bogus": "debug",
	}
	for in, want := range cases {
		t.Setenv("LOG_LEVEL", in)
		if got := levelFromEnv().String(); got != want {
			t.Fatalf("LOG_LEVEL=%q: want=%q got=%q", in, want, got)
		}
	}
}
