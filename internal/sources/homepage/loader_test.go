package homepage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "services.yaml")

	yamlContent := `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.LoadServices()
	if err != nil {
		t.Fatalf("LoadServices() error = %v", err)
	}

	if len(config) == 0 {
		t.Fatal("LoadServices() returned empty config")
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "services.yaml")

	yamlContent := `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: {{HOMEPAGE_VAR_ADGUARD_URL}}
        description: Test
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.LoadServices()
	if err != nil {
		t.Fatalf("LoadServices() error = %v", err)
	}

	if len(config) == 0 {
		t.Fatal("LoadServices() returned empty config")
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/services.yaml")
	_, err := loader.LoadServices()
	if err == nil {
		t.Error("LoadServices() with non-existent file should return error")
	}
}

func TestLoaderLoadBookmarks(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "bookmarks.yaml")

	yamlContent := `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go Docs:
        - icon: go.png
          href: {{HOMEPAGE_VAR_GODOC}}
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	config, err := NewLoader(yamlPath).LoadBookmarks()
	if err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}
	if len(config) != 1 || len(config[0]["Developer"]) != 2 {
		t.Fatalf("LoadBookmarks() = %+v, want one category with two bookmarks", config)
	}
	if got := config[0]["Developer"][0]["Github"][0].Abbr; got != "GH" {
		t.Errorf("abbr = %q, want GH", got)
	}
}

func TestStripTemplateVariablesFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "single template variable",
			input:    []byte("url: {{HOMEPAGE_VAR_URL}}"),
			expected: "url: \"\"",
		},
		{
			name:     "no template variables",
			input:    []byte("plain text"),
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripTemplateVariables(tt.input)
			if string(result) != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}
