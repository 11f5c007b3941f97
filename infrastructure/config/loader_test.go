package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainconfig "github.com/felixgeelhaar/belief-eval/domain/config"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoader_LoadFile_YAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "eval.yaml", `
name: grape-inspection
version: "1.0"
inputs:
  schema: action_schemas.json
  plan: plan.txt
scoring:
  modes: [current, future]
sampler:
  question_probability: 0.5
  seed: 7
  episodes: 3
agent:
  timeout: 5s
`)

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "grape-inspection" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Inputs.Schema != filepath.Join(dir, "action_schemas.json") {
		t.Errorf("Schema = %q, want path resolved against config dir", cfg.Inputs.Schema)
	}
	if cfg.Inputs.Claims != "" {
		t.Errorf("Claims = %q, want empty", cfg.Inputs.Claims)
	}
	if len(cfg.Scoring.Modes) != 2 {
		t.Errorf("Modes = %v", cfg.Scoring.Modes)
	}
	if seed, ok := cfg.Sampler.SeedValue(); !ok || seed != 7 || cfg.Sampler.Episodes != 3 {
		t.Errorf("Sampler = %+v", cfg.Sampler)
	}
	if cfg.Agent.Timeout.Duration().String() != "5s" {
		t.Errorf("Timeout = %v", cfg.Agent.Timeout.Duration())
	}
	if cfg.Runner.Concurrency != domainconfig.DefaultConcurrency {
		t.Errorf("Concurrency = %d, want default", cfg.Runner.Concurrency)
	}
}

func TestLoader_LoadFile_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "eval.json", `{
  "name": "grape-inspection",
  "version": "1.0",
  "inputs": {"schema": "/abs/schemas.yaml", "plan": "plan.txt"}
}`)

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Inputs.Schema != "/abs/schemas.yaml" {
		t.Errorf("Schema = %q, want absolute path unchanged", cfg.Inputs.Schema)
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badExt := writeFile(t, dir, "eval.toml", "name = 'x'")
	badYAML := writeFile(t, dir, "bad.yaml", "name: [unterminated")
	invalid := writeFile(t, dir, "invalid.yaml", "name: x\n")

	tests := []struct {
		name string
		path string
		want error
	}{
		{"not found", filepath.Join(dir, "missing.yaml"), domainconfig.ErrConfigNotFound},
		{"directory", dir, domainconfig.ErrInvalidFormat},
		{"unsupported", badExt, domainconfig.ErrUnsupportedFormat},
		{"malformed", badYAML, domainconfig.ErrInvalidFormat},
		{"invalid", invalid, domainconfig.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLoader().LoadFile(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoader_WithoutValidation(t *testing.T) {
	t.Parallel()

	loader := NewLoaderWithOptions(WithValidation(false), WithEnvExpansion(false))
	cfg, err := loader.LoadString("name: ${NOT_EXPANDED}\n", FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "${NOT_EXPANDED}" {
		t.Errorf("Name = %q, want literal reference", cfg.Name)
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("BELIEF_EVAL_TEST_PLAN", "gt.txt")

	cfg, err := NewLoader().LoadString(`
name: env
version: "1"
inputs:
  schema: s.json
  plan: ${BELIEF_EVAL_TEST_PLAN}
`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Inputs.Plan != "gt.txt" {
		t.Errorf("Plan = %q", cfg.Inputs.Plan)
	}
}

func TestLoadSchemaTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "schemas.json", `{
  "move": {"add_set": "(at ?2)", "del_set": "(at ?1)"},
  "handle_exception": {"add_set": "", "del_set": ""}
}`)
	yamlPath := writeFile(t, dir, "schemas.yaml", "move:\n  add_set: (at ?2)\n  del_set: (at ?1)\n")

	for _, path := range []string{jsonPath, yamlPath} {
		table, err := LoadSchemaTable(path)
		if err != nil {
			t.Fatalf("LoadSchemaTable(%s) error = %v", path, err)
		}
		if !table.Has("move") {
			t.Errorf("LoadSchemaTable(%s) missing move", path)
		}
	}
}

func TestLoadSchemaTable_Unsupported(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "schemas.txt", "")
	if _, err := LoadSchemaTable(path); !errors.Is(err, domainconfig.ErrUnsupportedFormat) {
		t.Errorf("LoadSchemaTable() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadPlan(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "plan.txt", "; cost = 2\nmove robot dock row1\n\ncheck_grape robot g1\n")
	p, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if p.At(1) != "check_grape robot g1" {
		t.Errorf("At(1) = %q", p.At(1))
	}
}

func TestLoadClaims(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := writeFile(t, dir, "claims.txt", "; belief\n(at robot dock)\n  free  arm \n\n")
	js := writeFile(t, dir, "claims.json", `["(at robot dock)", "(free arm)"]`)
	want := fluent.ParseState("at robot dock", "free arm")

	for _, path := range []string{text, js} {
		got, err := LoadClaims(path)
		if err != nil {
			t.Fatalf("LoadClaims(%s) error = %v", path, err)
		}
		if !got.Equal(want) {
			t.Errorf("LoadClaims(%s) = %v, want %v", path, got.Strings(), want.Strings())
		}
	}
}

func TestLoadClaims_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "claims.json", `{"not": "an array"}`)
	if _, err := LoadClaims(path); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("LoadClaims() error = %v, want ErrInvalidClaims", err)
	}
}

func TestReadClaims_Empty(t *testing.T) {
	t.Parallel()

	got, err := ReadClaims(strings.NewReader("\n; nothing\n"))
	if err != nil {
		t.Fatalf("ReadClaims() error = %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}
