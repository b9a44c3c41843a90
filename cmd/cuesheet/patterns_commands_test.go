package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cuesheet/internal/store"
)

func seedPattern(t *testing.T, env *cliTestEnv, confidence float64) int64 {
	t.Helper()
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	st, err := store.OpenAt(filepath.Join(env.dataDir, "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	defer st.Close()

	p, err := st.UpsertPattern(context.Background(), store.Pattern{
		Type:       "library",
		Condition:  "BMG Production Music",
		Field:      "publisher",
		Value:      "BMG Rights Management",
		Confidence: confidence,
	})
	if err != nil {
		t.Fatalf("UpsertPattern: %v", err)
	}
	return p.ID
}

func TestCLIPatternsLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	id := seedPattern(t, env, 0.80)

	out, _, err := runCLI(t, []string{"patterns", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("patterns list: %v", err)
	}
	requireContains(t, out, "BMG Rights Management")
	requireContains(t, out, "0.80")

	out, _, err = runCLI(t, []string{"patterns", "confirm", fmt.Sprintf("%d", id)}, env.configPath)
	if err != nil {
		t.Fatalf("patterns confirm: %v", err)
	}
	requireContains(t, out, "confidence 0.83")

	out, _, err = runCLI(t, []string{"patterns", "override", fmt.Sprintf("%d", id)}, env.configPath)
	if err != nil {
		t.Fatalf("patterns override: %v", err)
	}
	requireContains(t, out, "confidence 0.78")

	out, _, err = runCLI(t, []string{"patterns", "delete", fmt.Sprintf("%d", id)}, env.configPath)
	if err != nil {
		t.Fatalf("patterns delete: %v", err)
	}
	requireContains(t, out, "deleted")

	out, _, err = runCLI(t, []string{"patterns", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("patterns list after delete: %v", err)
	}
	requireContains(t, out, "No learned patterns yet")
}

func TestCLIPatternsRecordSeedsRule(t *testing.T) {
	env := setupCLITestEnv(t)

	args := []string{"patterns", "record", "composer", "J. Smith", "--library", "Extreme Music"}
	for i := 0; i < 3; i++ {
		if _, _, err := runCLI(t, args, env.configPath); err != nil {
			t.Fatalf("patterns record #%d: %v", i+1, err)
		}
	}

	out, _, err := runCLI(t, []string{"patterns", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("patterns list: %v", err)
	}
	requireContains(t, out, "J. Smith")
	requireContains(t, out, "0.70")
}

func TestCLIPatternsRecordRequiresContext(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"patterns", "record", "composer", "J. Smith"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without a context flag")
	}

	_, _, err = runCLI(t, []string{"patterns", "record", "bogus", "J. Smith", "--library", "X"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}
