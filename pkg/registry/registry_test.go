package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_YAML(t *testing.T) {
	reg, err := LoadRegistry("testdata/templates.yaml")
	require.NoError(t, err)

	assert.Equal(t, "2026.1", reg.Version)
	require.Len(t, reg.Templates, 2)
	assert.Equal(t, "summer-terrace", reg.Templates[0].ID)
	assert.Equal(t, []string{"seasonal", "outdoor"}, reg.Templates[0].Tags)
	assert.Contains(t, reg.Templates[0].Body, "{{offerParagraph}}")

	problems, err := Validate(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestLoadRegistry_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "1",
		"templates": [{"id": "wine-tasting", "subject": "Wine tasting", "body": "{{salutation}}\n\n{{signature}}"}]
	}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Templates, 1)
	assert.Equal(t, "wine-tasting", reg.Templates[0].Template().ID)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: \"1\"\ntemplates:\n  - id: a\n    bdy: typo\n"), ".yaml")
	assert.Error(t, err)

	_, err = Parse([]byte(`{"version": "1", "templatez": []}`), ".json")
	assert.Error(t, err)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("id = 1"), ".toml")
	assert.ErrorContains(t, err, "unsupported")
}

func TestValidate_ReportsProblems(t *testing.T) {
	reg := &TemplateRegistry{
		Version: "",
		Templates: []TemplateEntry{
			{ID: "ok-letter", Body: "{{salutation}}"},
			{ID: "ok-letter", Body: "{{signature}}"},
			{ID: "Bad Letter", Body: "{{salutation}}"},
			{ID: "promo", Body: "{{voucher}}"},
			{ID: "empty", Body: ""},
		},
	}

	problems, err := Validate(reg)
	require.NoError(t, err)

	var messages []string
	for _, p := range problems {
		messages = append(messages, p.String())
	}
	assert.Contains(t, messages, "ok-letter: duplicate id")
	assert.Contains(t, messages, "promo: unknown placeholders: voucher")
	assertAnyContains(t, messages, "Bad Letter: id")
	assertAnyContains(t, messages, "empty: body is empty")
	assertAnyContains(t, messages, "version")
}

func assertAnyContains(t *testing.T, messages []string, want string) {
	t.Helper()
	for _, m := range messages {
		if strings.Contains(m, want) {
			return
		}
	}
	t.Errorf("no message contains %q: %v", want, messages)
}
