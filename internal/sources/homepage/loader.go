package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads one homepage YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.filePath
}

// LoadServices parses the file as services.yaml.
func (l *Loader) LoadServices() (ServicesConfig, error) {
	var config ServicesConfig
	if err := l.load("services", &config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadBookmarks parses the file as bookmarks.yaml.
func (l *Loader) LoadBookmarks() (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := l.load("bookmarks", &config); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) load(kind string, dst any) error {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", kind, err)
	}

	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s yaml: %w", kind, err)
	}
	return nil
}

// stripTemplateVariables blanks homepage template variables.
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
