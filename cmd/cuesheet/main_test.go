package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n", dataDir, filepath.Join(base, "logs"))
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, dataDir: dataDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

const cliProjectDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Project>
  <Timeline>
    <ClipTrackItem>
      <SubClip ObjectRef="sub1"/>
      <Start>0</Start>
      <End>254016000000</End>
    </ClipTrackItem>
    <ClipTrackItem>
      <SubClip ObjectRef="sub2"/>
      <Start>0</Start>
      <End>254016000000</End>
    </ClipTrackItem>
  </Timeline>
  <SubClip ObjectID="sub1">
    <Clip ObjectRef="clip1"/>
  </SubClip>
  <SubClip ObjectID="sub2">
    <Clip ObjectRef="clip2"/>
  </SubClip>
  <Clip ObjectID="clip1">
    <Name>mx_BMGPM_IATS021_Punch_Drunk.wav</Name>
  </Clip>
  <Clip ObjectID="clip2">
    <Name>Interview_CAM1_01.09.2026.wav</Name>
  </Clip>
</Project>`

func writeProjectFixture(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(cliProjectDoc)); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	path := filepath.Join(dir, "project.prproj")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCLIImportJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	project := writeProjectFixture(t, env.baseDir)

	out, _, err := runCLI(t, []string{"import", project, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("import --json: %v", err)
	}

	var result importOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode import output: %v\n%s", err, out)
	}
	if result.Summary.Cues != 1 || len(result.Cues) != 1 {
		t.Fatalf("expected 1 cue, got summary %+v", result.Summary)
	}
	if result.Cues[0].CatalogCode != "IATS021" {
		t.Fatalf("unexpected cue %+v", result.Cues[0])
	}
	if result.Summary.RunID == "" {
		t.Fatal("expected a run id in the summary")
	}
}

func TestCLIImportTable(t *testing.T) {
	env := setupCLITestEnv(t)
	project := writeProjectFixture(t, env.baseDir)

	out, _, err := runCLI(t, []string{"import", project}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "IATS021")
	requireContains(t, out, "0:00:01")
	requireContains(t, out, "2 clips parsed, 1 cues emitted")
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "cuesheet ")
}

func TestCLIImportMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"import", filepath.Join(env.baseDir, "absent.prproj")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing project file")
	}
	if !strings.Contains(err.Error(), "cannot read") {
		t.Fatalf("expected an actionable parse message, got %v", err)
	}
}
