package main

import (
	"testing"
)

func TestCLITracksLearnMatchSearch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"tracks", "learn", "Punch Drunk",
		"--catalog", "IATS021",
		"--composer", "J. Smith",
		"--library", "BMG Production Music",
	}, env.configPath)
	if err != nil {
		t.Fatalf("tracks learn: %v", err)
	}
	requireContains(t, out, `Learned "Punch Drunk" (catalog IATS021`)

	out, _, err = runCLI(t, []string{"tracks", "match", "mx_BMGPM_IATS021_Punch_Drunk_Full_Mix"}, env.configPath)
	if err != nil {
		t.Fatalf("tracks match: %v", err)
	}
	requireContains(t, out, `Matched "Punch Drunk" (score 0.95)`)
	requireContains(t, out, "J. Smith")

	out, _, err = runCLI(t, []string{"tracks", "match", "Completely_Unrelated_Thing"}, env.configPath)
	if err != nil {
		t.Fatalf("tracks match miss: %v", err)
	}
	requireContains(t, out, "No confident match")

	out, _, err = runCLI(t, []string{"tracks", "search", "Punch Drunk"}, env.configPath)
	if err != nil {
		t.Fatalf("tracks search: %v", err)
	}
	requireContains(t, out, "IATS021")
	requireContains(t, out, "BMG Production Music")
}
