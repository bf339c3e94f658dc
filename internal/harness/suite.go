package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Suite is one YAML suite file: a family checked against style files.
type Suite struct {
	// Name identifies the suite and its golden report.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Family is the schema family the component belongs to.
	Family string `yaml:"family"`

	// Styles lists the style sheets forming the component artifact, in
	// the order the component applies them.
	Styles []string `yaml:"styles"`

	// Values enables value-mismatch detection for this suite.
	Values bool `yaml:"values,omitempty"`

	// Expect lists known failures. Nil means every case must pass.
	Expect *SuiteExpect `yaml:"expect,omitempty"`
}

// SuiteExpect declares the cases a suite expects to fail.
type SuiteExpect struct {
	Failing []string `yaml:"failing"`
}

// LoadSuite reads a suite file, resolving style paths against the
// suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	return LoadSuiteWithBasePath(path, filepath.Dir(path))
}

// LoadSuiteWithBasePath reads a suite file, resolving relative style
// paths against basePath.
// Unknown fields are rejected so typos fail loudly.
func LoadSuiteWithBasePath(path, basePath string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, style := range suite.Styles {
		if style != "" && !filepath.IsAbs(style) && basePath != "" {
			suite.Styles[i] = filepath.Join(basePath, filepath.FromSlash(style))
		}
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Family == "" {
		return fmt.Errorf("family is required")
	}
	if len(s.Styles) == 0 {
		return fmt.Errorf("styles list is required and must be non-empty")
	}
	for i, style := range s.Styles {
		if style == "" {
			return fmt.Errorf("styles[%d]: path is empty", i)
		}
		if _, err := os.Stat(style); os.IsNotExist(err) {
			return fmt.Errorf("style file not found: %s", style)
		}
	}
	if s.Expect != nil {
		seen := make(map[string]bool, len(s.Expect.Failing))
		for i, name := range s.Expect.Failing {
			if name == "" {
				return fmt.Errorf("expect.failing[%d]: case name is empty", i)
			}
			if seen[name] {
				return fmt.Errorf("expect.failing[%d]: duplicate case %q", i, name)
			}
			seen[name] = true
		}
	}
	return nil
}
