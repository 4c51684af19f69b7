// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/templates"
)

// LoadRegistry reads a registry file. The extension picks the format:
// .json, or .yaml/.yml.
func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes registry data in the format named by ext. Unknown keys are
// rejected so a misspelled field does not silently drop content.
func Parse(data []byte, ext string) (*TemplateRegistry, error) {
	var reg TemplateRegistry
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&reg); err != nil {
			return nil, fmt.Errorf("parse registry json: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&reg); err != nil {
			return nil, fmt.Errorf("parse registry yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry format %q", ext)
	}
	return &reg, nil
}

// Problem is one validation finding.
type Problem struct {
	TemplateID string
	Message    string
}

func (p Problem) String() string {
	if p.TemplateID == "" {
		return p.Message
	}
	return p.TemplateID + ": " + p.Message
}

// Validate checks the registry shape, then each template the way the store
// would on save, then duplicate ids.
func Validate(reg *TemplateRegistry) ([]Problem, error) {
	result, err := registrySchema.ValidateValue(reg)
	if err != nil {
		return nil, err
	}

	var problems []Problem
	for _, msg := range result.GetErrorMessages() {
		problems = append(problems, Problem{Message: msg})
	}

	seen := make(map[string]bool)
	for _, entry := range reg.Templates {
		if seen[entry.ID] {
			problems = append(problems, Problem{TemplateID: entry.ID, Message: "duplicate id"})
			continue
		}
		seen[entry.ID] = true

		if err := templates.Validate(entry.Template()); err != nil {
			problems = append(problems, Problem{TemplateID: entry.ID, Message: detail(err)})
		}
	}
	return problems, nil
}

func detail(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}
