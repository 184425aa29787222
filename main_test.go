package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-bending-light/pkg/tracer"
)

// execute runs the CLI with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTraceCommand(t *testing.T) {
	tests := []struct {
		name        string
		sceneName   string
		expectError bool
	}{
		// Built-in scenes
		{"intro scene", "intro", false},
		{"more-tools scene", "more-tools", false},
		{"prism-break scene", "prism-break", false},
		{"prisms scene", "prisms", false},
		{"many-rays scene", "many-rays", false},

		// YAML scenes by name and by path
		{"diamond-slab by name", "diamond-slab", false},
		{"custom-wedge by path", "scenes/custom-wedge.yaml", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid path", "scenes/nonexistent.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "trace", "--scene", tt.sceneName, "--json")

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneName, err)
			}

			var result tracer.Result
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				t.Fatalf("Output for scene '%s' is not a JSON result: %v", tt.sceneName, err)
			}
			if len(result.Rays) == 0 {
				t.Errorf("Expected rays for scene '%s', got none", tt.sceneName)
			}
			for i, ray := range result.Rays {
				if !ray.IsFinite() {
					t.Errorf("Ray %d of scene '%s' is not finite", i, tt.sceneName)
				}
			}
		})
	}
}

func TestTraceCommand_Table(t *testing.T) {
	out, err := execute(t, "trace", "--scene", "intro")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{"mode: interface", "incident", "reflected", "transmitted", "sensor:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain '%s', got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "no reading") {
		t.Errorf("Intro sensor should read the transmitted ray, got:\n%s", out)
	}
}

func TestScenesCommand(t *testing.T) {
	out, err := execute(t, "scenes")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "Built-in Scenes") {
		t.Errorf("Expected built-in scenes first, got:\n%s", out)
	}
	for _, id := range []string{"intro", "prism-break", "diamond-slab", "underwater"} {
		if !strings.Contains(out, id) {
			t.Errorf("Expected scene '%s' in listing, got:\n%s", id, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")

	out, err := execute(t, "render", "--scene", "prisms", "--out", path, "--width", "120", "--height", "90")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("Expected output to name '%s', got: %s", path, out)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected PNG at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("Expected non-empty PNG")
	}
}

func TestRenderCommand_InvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	if _, err := execute(t, "render", "--scene", "intro", "--out", path, "--width", "0"); err == nil {
		t.Errorf("Expected error for zero width")
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		sceneName string
		expected  string
	}{
		{"built-in scene", "intro", filepath.Join("output", "intro")},
		{"scene name", "diamond-slab", filepath.Join("output", "diamond-slab")},
		{"yaml path", "scenes/custom-wedge.yaml", filepath.Join("output", "custom-wedge")},
		{"nested path", "scenes/subdir/my-scene.yml", filepath.Join("output", "my-scene")},
		{"empty name", "", filepath.Join("output", "scene")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createOutputDir(tt.sceneName); got != tt.expected {
				t.Errorf("createOutputDir(%q) = %q, want %q", tt.sceneName, got, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, prod := range []bool{false, true} {
		logger, err := newLogger(prod)
		if err != nil {
			t.Fatalf("newLogger(%v) failed: %v", prod, err)
		}
		if logger == nil {
			t.Errorf("newLogger(%v) returned nil", prod)
		}
	}
}
