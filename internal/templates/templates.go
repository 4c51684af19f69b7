// Package templates stores the letter templates the engine renders: built into
// the binary, kept in Postgres for editors, and cached in Redis.
package templates

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/correspondence"
)

// ErrTemplateNotFound is returned by a Source that has no template with the id.
var ErrTemplateNotFound = stderrors.New("template not found")

// Template is a stored letter template.
type Template struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Subject   string    `json:"subject" yaml:"subject"`
	Body      string    `json:"body" yaml:"body"`
	Version   int       `json:"version" yaml:"version,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// Correspondence converts to the engine's template type.
func (t Template) Correspondence() correspondence.Template {
	return correspondence.Template{ID: t.ID, Name: t.Name, Subject: t.Subject, Body: t.Body}
}

// Source looks templates up by id.
type Source interface {
	Get(ctx context.Context, id string) (*Template, error)
}

// Lister is a Source that can enumerate its templates.
type Lister interface {
	List(ctx context.Context) ([]Template, error)
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// Validate checks a template before it is stored. Unknown placeholders are
// reported because they would silently render as empty text.
func Validate(t Template) error {
	var problems []string

	if !idPattern.MatchString(t.ID) {
		problems = append(problems, fmt.Sprintf("id %q must be lowercase letters, digits and dashes", t.ID))
	}
	if strings.TrimSpace(t.Body) == "" {
		problems = append(problems, "body is empty")
	}
	if strings.ContainsAny(t.Subject, "\r\n") {
		problems = append(problems, "subject must be a single line")
	}
	if unknown := UnknownPlaceholders(t); len(unknown) > 0 {
		problems = append(problems, "unknown placeholders: "+strings.Join(unknown, ", "))
	}

	if len(problems) > 0 {
		return errors.NewTemplateValidationFailedError(strings.Join(problems, "; ")).
			WithMetadata("templateId", t.ID)
	}
	return nil
}

// UnknownPlaceholders lists placeholders in subject or body that the engine
// does not resolve.
func UnknownPlaceholders(t Template) []string {
	known := make(map[string]bool)
	for _, name := range correspondence.VariableNames() {
		known[name] = true
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, name := range append(correspondence.Placeholders(t.Subject), correspondence.Placeholders(t.Body)...) {
		if !known[name] && !seen[name] {
			seen[name] = true
			unknown = append(unknown, name)
		}
	}
	return unknown
}
