package scene

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"prism-break", "Prism Break"},
		{"diamond_slab", "Diamond Slab"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete-metadata.yaml",
			content: `# Scene: Prism Break
# Variant: Violet
# Description: Violet light through a triangle
# Group: Prisms

mode: prisms`,
			expected: SceneInfo{
				ID:          "complete-metadata",
				Name:        "Prism Break",
				DisplayName: "Prism Break - Violet",
				Description: "Violet light through a triangle",
				Group:       "Prisms",
				Type:        "yaml",
				Variant:     "Violet",
			},
		},
		{
			name: "partial-metadata.yaml",
			content: `# Scene: Slab
# Description: Flat glass slab

mode: interface`,
			expected: SceneInfo{
				ID:          "partial-metadata",
				Name:        "Slab",
				DisplayName: "Slab",
				Description: "Flat glass slab",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
		{
			name:    "no-metadata.yaml",
			content: `mode: interface`,
			expected: SceneInfo{
				ID:          "no-metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write scene file: %v", err)
			}

			result, err := ParseMetadata(path)
			if err != nil {
				t.Fatalf("ParseMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseMetadata_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := ParseMetadata(path); err == nil {
		t.Errorf("ParseMetadata(%q) expected an error for a missing file", path)
	}

	dir := t.TempDir()
	if _, err := ParseMetadata(dir); err == nil {
		t.Errorf("ParseMetadata(%q) expected an error for a directory", dir)
	}
}

func TestListFileScenes(t *testing.T) {
	scenes, err := ListFileScenes(zap.NewNop())
	if err != nil {
		t.Errorf("ListFileScenes() error: %v", err)
	}
	if scenes == nil {
		t.Error("ListFileScenes() returned nil, expected empty slice")
	}

	// Every discovered file must also load
	for _, info := range scenes {
		if _, err := LoadFile(info.FilePath); err != nil {
			t.Errorf("Scene %s does not load: %v", info.FilePath, err)
		}
	}
}

func TestListAllScenes(t *testing.T) {
	response, err := ListAllScenes(nil)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) == 0 {
		t.Fatal("ListAllScenes() returned no groups")
	}

	builtIn := response.Groups[0]
	if builtIn.Name != "Built-in Scenes" {
		t.Errorf("First group = %q, want Built-in Scenes", builtIn.Name)
	}

	expectedScenes := []string{"intro", "more-tools", "prism-break", "prisms", "many-rays"}
	if len(builtIn.Scenes) != len(expectedScenes) {
		t.Fatalf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(expectedScenes))
	}
	for i, id := range expectedScenes {
		if builtIn.Scenes[i].ID != id {
			t.Errorf("Built-in scene %d = %q, want %q", i, builtIn.Scenes[i].ID, id)
		}
		if builtIn.Scenes[i].Type != "builtin" {
			t.Errorf("Built-in scene %s has type %q", id, builtIn.Scenes[i].Type)
		}
	}

	for i := 2; i < len(response.Groups); i++ {
		if response.Groups[i-1].Name > response.Groups[i].Name {
			t.Errorf("Groups not sorted: %q before %q", response.Groups[i-1].Name, response.Groups[i].Name)
		}
	}
}
