// pkg/registry/schema.go
package registry

import (
	"correspondence-workers/internal/common/validation"
	"correspondence-workers/internal/templates"
)

// TemplateRegistry is the file editors keep under version control and seed
// into the template store.
type TemplateRegistry struct {
	Version     string          `json:"version" yaml:"version"`
	LastUpdated string          `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	Templates   []TemplateEntry `json:"templates" yaml:"templates"`
}

type TemplateEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Subject     string   `json:"subject" yaml:"subject"`
	Body        string   `json:"body" yaml:"body"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Template converts the entry for storage.
func (e TemplateEntry) Template() templates.Template {
	return templates.Template{ID: e.ID, Name: e.Name, Subject: e.Subject, Body: e.Body}
}

var registrySchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "templates"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "templates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "body"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "description": {"type": "string"},
          "subject": {"type": "string"},
          "body": {"type": "string", "minLength": 1},
          "tags": {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  }
}`)
