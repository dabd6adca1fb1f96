package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-archcheck/pkg/depmodel"
	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

const sampleConfig = `
layers:
  - Domain
  - Application
  - Infrastructure
  - Api
same_layer_dependencies: false
forbidden:
  - layer: Domain
    external: EntityFrameworkCore
modules:
  - name: Domain.Order
    layer: Domain
    externals:
      - FluentValidation
  - name: App.Checkout
    layer: Application
  - name: Api.Http
    layer: Api
edges:
  - from: Api.Http
    to: App.Checkout
  - from: App.Checkout
    to: Domain.Order
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cfg.Layers) != 4 {
		t.Errorf("Expected 4 layers, got %d", len(cfg.Layers))
	}
	if cfg.SameLayerDependencies == nil || *cfg.SameLayerDependencies {
		t.Errorf("Expected same_layer_dependencies false, got %v", cfg.SameLayerDependencies)
	}
	if len(cfg.Modules) != 3 || len(cfg.Edges) != 2 || len(cfg.Forbidden) != 1 {
		t.Errorf("Parsed counts: modules=%d edges=%d forbidden=%d",
			len(cfg.Modules), len(cfg.Edges), len(cfg.Forbidden))
	}
}

func TestParse_MissingSameLayerPolicy(t *testing.T) {
	_, err := Parse([]byte("layers:\n  - Domain\n"))
	if err == nil {
		t.Fatal("Expected error when same_layer_dependencies is absent")
	}
	if !strings.Contains(err.Error(), "SameLayerDependencies") {
		t.Errorf("Error does not name the missing field: %v", err)
	}
}

func TestParse_MissingLayers(t *testing.T) {
	_, err := Parse([]byte("same_layer_dependencies: true\n"))
	if err == nil {
		t.Fatal("Expected error when layers are absent")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("layers: [unclosed"))
	if err == nil {
		t.Fatal("Expected parse error for invalid YAML")
	}
}

func TestBuild_Valid(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reg, model, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if reg.SameLayerPolicy() != rules.SameLayerForbid {
		t.Errorf("Expected forbid policy, got %v", reg.SameLayerPolicy())
	}
	if !reg.IsForbiddenExternal("Domain", "EntityFrameworkCore") {
		t.Error("Forbidden pair not registered")
	}
	if model.ModuleCount() != 3 || model.EdgeCount() != 2 {
		t.Errorf("Model counts: modules=%d edges=%d", model.ModuleCount(), model.EdgeCount())
	}
}

func TestBuild_SameLayerAllow(t *testing.T) {
	cfg, err := Parse([]byte("layers: [Domain]\nsame_layer_dependencies: true\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reg, _, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if reg.SameLayerPolicy() != rules.SameLayerAllow {
		t.Errorf("Expected allow policy, got %v", reg.SameLayerPolicy())
	}
}

func TestBuild_DanglingEdge(t *testing.T) {
	cfg, err := Parse([]byte(`
layers: [Domain]
same_layer_dependencies: true
modules:
  - name: Domain.Order
    layer: Domain
edges:
  - from: Domain.Order
    to: Domain.Missing
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, _, err = cfg.Build()
	if !errors.Is(err, depmodel.ErrUnknownModule) {
		t.Errorf("Expected ErrUnknownModule, got %v", err)
	}
}

func TestBuild_UnknownLayer(t *testing.T) {
	cfg, err := Parse([]byte(`
layers: [Domain]
same_layer_dependencies: true
modules:
  - name: Web.Pages
    layer: Presentation
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, _, err = cfg.Build()
	if !errors.Is(err, rules.ErrUnknownLayer) {
		t.Errorf("Expected ErrUnknownLayer, got %v", err)
	}
}

func TestBuild_DuplicateLayer(t *testing.T) {
	cfg, err := Parse([]byte("layers: [Domain, Domain]\nsame_layer_dependencies: true\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, _, err = cfg.Build()
	if !errors.Is(err, rules.ErrDuplicateLayer) {
		t.Errorf("Expected ErrDuplicateLayer, got %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arch.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Modules) != 3 {
		t.Errorf("Expected 3 modules, got %d", len(cfg.Modules))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}
