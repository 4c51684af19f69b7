package templates

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/correspondence"
)

// ==========================
// Test Helper Functions
// ==========================

type mapSource struct {
	templates map[string]Template
	err       error
	calls     int
}

func (m *mapSource) Get(_ context.Context, id string) (*Template, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &t, nil
}

func (m *mapSource) List(_ context.Context) ([]Template, error) {
	var out []Template
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, m.err
}

func createTestTemplate(id string) Template {
	return Template{
		ID:      id,
		Name:    "Summer terrace",
		Subject: "Your {{eventType}} on {{eventDate}}",
		Body:    "{{salutation}}\n\nSee you {{eventDetails}}.\n\n{{signature}}",
		Version: 2,
	}
}

// ==========================
// Validation
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Template)
		wantErr string
	}{
		{"valid", func(*Template) {}, ""},
		{"uppercase id", func(t *Template) { t.ID = "Summer" }, "lowercase"},
		{"empty id", func(t *Template) { t.ID = "" }, "lowercase"},
		{"empty body", func(t *Template) { t.Body = "  \n" }, "body is empty"},
		{"multiline subject", func(t *Template) { t.Subject = "a\nb" }, "single line"},
		{"unknown placeholder", func(t *Template) { t.Body += " {{voucherCode}}" }, "voucherCode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := createTestTemplate("summer-terrace")
			tt.mutate(&tmpl)

			err := Validate(tmpl)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeTemplateValidationFailed))
			assert.Contains(t, err.(*errors.StandardError).Details, tt.wantErr)
		})
	}
}

func TestUnknownPlaceholders_Deduplicates(t *testing.T) {
	tmpl := Template{Subject: "{{promo}}", Body: "{{promo}} {{salutation}} {{ table }}"}
	assert.Equal(t, []string{"promo", "table"}, UnknownPlaceholders(tmpl))
}

func TestNamedTemplatesAreValid(t *testing.T) {
	list, err := NewBuiltinSource().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, tmpl := range list {
		assert.NoError(t, Validate(tmpl), tmpl.ID)
	}
}

// ==========================
// Builtin and chain sources
// ==========================

func TestBuiltinSource_Get(t *testing.T) {
	src := NewBuiltinSource()

	tmpl, err := src.Get(context.Background(), correspondence.TemplateBusinessAperitivo)
	require.NoError(t, err)
	assert.Equal(t, correspondence.TemplateBusinessAperitivo, tmpl.ID)
	assert.NotEmpty(t, tmpl.Body)

	_, err = src.Get(context.Background(), "summer-terrace")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestChainSource_FirstHitWins(t *testing.T) {
	override := createTestTemplate(correspondence.TemplateGroupReservation)
	override.Body = "{{salutation}} custom"
	first := &mapSource{templates: map[string]Template{override.ID: override}}
	chain := NewChainSource(first, NewBuiltinSource())

	tmpl, err := chain.Get(context.Background(), correspondence.TemplateGroupReservation)
	require.NoError(t, err)
	assert.Equal(t, "{{salutation}} custom", tmpl.Body)

	tmpl, err = chain.Get(context.Background(), correspondence.TemplateExclusiveLocation)
	require.NoError(t, err)
	assert.Equal(t, correspondence.TemplateExclusiveLocation, tmpl.ID)
}

func TestChainSource_AllMiss(t *testing.T) {
	chain := NewChainSource(&mapSource{}, NewBuiltinSource())

	_, err := chain.Get(context.Background(), "summer-terrace")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestChainSource_ErrorStopsLookup(t *testing.T) {
	failing := &mapSource{err: errors.NewTemplateStoreFailedError("get", fmt.Errorf("connection reset"))}
	after := &mapSource{templates: map[string]Template{"x": createTestTemplate("x")}}
	chain := NewChainSource(failing, after)

	_, err := chain.Get(context.Background(), "x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeTemplateStoreFailed))
	assert.Zero(t, after.calls)
}

func TestChainSource_ListMergesWithoutDuplicates(t *testing.T) {
	override := createTestTemplate(correspondence.TemplateGroupReservation)
	extra := createTestTemplate("summer-terrace")
	first := &mapSource{templates: map[string]Template{override.ID: override, extra.ID: extra}}

	list, err := NewChainSource(first, NewBuiltinSource()).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 4)

	for _, tmpl := range list {
		if tmpl.ID == correspondence.TemplateGroupReservation {
			assert.Equal(t, override.Body, tmpl.Body)
		}
	}
}
