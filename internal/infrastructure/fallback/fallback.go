// Package fallback loads the copy rendered when the CMS cannot be reached.
package fallback

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/content"
	"gopkg.in/yaml.v3"
)

//go:embed copy.yaml
var embedded []byte

// Load parses the copy at path, or the embedded copy when path is empty.
func Load(path string) (*content.SiteCopy, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fallback copy %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes fallback copy.
func Parse(data []byte) (*content.SiteCopy, error) {
	var site content.SiteCopy
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse fallback copy: %w", err)
	}
	return &site, nil
}

// MustDefault returns the embedded copy and panics if it does not parse.
func MustDefault() *content.SiteCopy {
	site, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return site
}
