package templates

import (
	"context"

	"correspondence-workers/internal/correspondence"
)

// BuiltinSource serves the named letters compiled into the binary.
type BuiltinSource struct{}

func NewBuiltinSource() *BuiltinSource { return &BuiltinSource{} }

func (s *BuiltinSource) Get(_ context.Context, id string) (*Template, error) {
	t, ok := correspondence.NamedTemplate(id)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	out := fromNamed(t)
	return &out, nil
}

func (s *BuiltinSource) List(_ context.Context) ([]Template, error) {
	named := correspondence.NamedTemplates()
	out := make([]Template, 0, len(named))
	for _, t := range named {
		out = append(out, fromNamed(t))
	}
	return out, nil
}

func fromNamed(t correspondence.Template) Template {
	return Template{ID: t.ID, Name: t.Name, Subject: t.Subject, Body: t.Body}
}
