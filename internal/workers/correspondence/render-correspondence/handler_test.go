// internal/workers/correspondence/render-correspondence/handler_test.go
package rendercorrespondence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/metrics"
	"correspondence-workers/internal/correspondence"
	"correspondence-workers/internal/templates"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSource struct {
	templates map[string]templates.Template
	err       error
}

func (s *stubSource) Get(_ context.Context, id string) (*templates.Template, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.templates[id]
	if !ok {
		return nil, templates.ErrTemplateNotFound
	}
	return &t, nil
}

func createTestConfig() *Config {
	return &Config{
		DefaultTemplateID: correspondence.TemplateGroupReservation,
		Timeout:           5 * time.Second,
	}
}

func createTestHandler(t *testing.T, source templates.Source) *Handler {
	t.Helper()
	if source == nil {
		source = templates.NewBuiltinSource()
	}
	h, err := NewHandler(HandlerOptions{
		Config: createTestConfig(),
		Dependencies: ServiceDependencies{
			Engine:    correspondence.New(correspondence.DefaultSettings()),
			Templates: source,
			Logger:    logger.NewTestLogger(t),
		},
	})
	require.NoError(t, err)
	h.service.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return h
}

func createInquiry() correspondence.InquiryContext {
	return correspondence.InquiryContext{
		CustomerName: "Anna Keller",
		EventDate:    "2026-07-04",
		GuestCount:   correspondence.GuestCountOf(18),
		EventType:    "birthday dinner",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name            string
		input           *Input
		expectedID      string
		expectedSubject string
		bodyContains    []string
	}{
		{
			name:            "default template",
			input:           &Input{Inquiry: createInquiry()},
			expectedID:      correspondence.TemplateGroupReservation,
			expectedSubject: "Your birthday dinner with us",
			bodyContains:    []string{"Dear Anna Keller,", "for your birthday dinner"},
		},
		{
			name:            "explicit named template",
			input:           &Input{TemplateID: correspondence.TemplateBusinessAperitivo, Inquiry: createInquiry()},
			expectedID:      correspondence.TemplateBusinessAperitivo,
			expectedSubject: "Your business aperitivo with us",
			bodyContains:    []string{"business aperitivo"},
		},
		{
			name: "inline body",
			input: &Input{
				TemplateBody:    "{{salutation}}\n\nSee you {{eventDetails}}.",
				SubjectTemplate: "Re: {{ eventType }}",
				Inquiry:         createInquiry(),
			},
			expectedID:      InlineTemplateID,
			expectedSubject: "Re: birthday dinner",
			bodyContains:    []string{"Dear Anna Keller,\n\nSee you for your birthday dinner"},
		},
		{
			name: "subject override on stored template",
			input: &Input{
				TemplateID:      correspondence.TemplateExclusiveLocation,
				SubjectTemplate: "Exclusive booking for {{customerName}}",
				Inquiry:         createInquiry(),
			},
			expectedID:      correspondence.TemplateExclusiveLocation,
			expectedSubject: "Exclusive booking for Anna Keller",
			bodyContains:    []string{"preferred catering format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, nil)

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, output.TemplateID)
			assert.Equal(t, tt.expectedSubject, output.Subject)
			for _, want := range tt.bodyContains {
				assert.Contains(t, output.Body, want)
			}
			assert.Equal(t, "2026-05-04T10:00:00Z", output.RenderedAt)
			_, err = uuid.Parse(output.RenderID)
			assert.NoError(t, err)
		})
	}
}

func TestHandler_Execute_MatchesEngine(t *testing.T) {
	handler := createTestHandler(t, nil)
	options := []correspondence.OfferOption{
		{PackageName: "Aperitivo Classico", GuestCount: 18, TotalAmount: 1080},
	}

	output, err := handler.Execute(context.Background(), &Input{Inquiry: createInquiry(), Options: options})
	require.NoError(t, err)

	engine := correspondence.New(correspondence.DefaultSettings())
	doc, ok := engine.RenderNamed(correspondence.TemplateGroupReservation, createInquiry(), options)
	require.True(t, ok)
	assert.Equal(t, doc.Body, output.Body)
	assert.Equal(t, doc.Subject, output.Subject)
}

func TestHandler_Execute_UsesStoredVersion(t *testing.T) {
	source := &stubSource{templates: map[string]templates.Template{
		"summer-terrace": {ID: "summer-terrace", Subject: "Terrace", Body: "{{salutation}} terrace", Version: 7},
	}}
	handler := createTestHandler(t, source)
	before := testutil.ToFloat64(metrics.RendersTotal.WithLabelValues("summer-terrace"))

	output, err := handler.Execute(context.Background(), &Input{TemplateID: "summer-terrace"})

	require.NoError(t, err)
	assert.Equal(t, 7, output.TemplateVersion)
	assert.Equal(t, "Dear Sir or Madam, terrace", output.Body)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RendersTotal.WithLabelValues("summer-terrace")))
}

func TestHandler_Execute_ErrorCases(t *testing.T) {
	tests := []struct {
		name   string
		source templates.Source
		input  *Input
		code   errors.ErrorCode
	}{
		{
			name:   "unknown template",
			source: templates.NewBuiltinSource(),
			input:  &Input{TemplateID: "summer-party"},
			code:   errors.ErrCodeTemplateNotFound,
		},
		{
			name:   "plain store error is wrapped",
			source: &stubSource{err: fmt.Errorf("pq: too many connections")},
			input:  &Input{TemplateID: "summer-party"},
			code:   errors.ErrCodeTemplateStoreFailed,
		},
		{
			name:   "standard error passes through",
			source: &stubSource{err: errors.NewTimeoutError("postgres", context.DeadlineExceeded)},
			input:  &Input{},
			code:   errors.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, tt.source)

			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestHandler_Execute_NotFoundCarriesTemplateID(t *testing.T) {
	handler := createTestHandler(t, nil)

	_, err := handler.Execute(context.Background(), &Input{TemplateID: "summer-party"})

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "summer-party", stdErr.Metadata["templateId"])
	assert.False(t, stdErr.Retryable)
}

// ==========================
// Input decoding
// ==========================

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
		check     func(t *testing.T, in *Input)
	}{
		{
			name:      "guest count as number",
			variables: `{"inquiry": {"customerName": "Anna", "guestCount": 18}, "processVar": true}`,
			check: func(t *testing.T, in *Input) {
				n, ok := in.Inquiry.GuestCount.Int()
				assert.True(t, ok)
				assert.Equal(t, 18, n)
			},
		},
		{
			name:      "guest count as free text",
			variables: `{"inquiry": {"guestCount": "about 40"}}`,
			check: func(t *testing.T, in *Input) {
				assert.Equal(t, "about 40", in.Inquiry.GuestCount.String())
			},
		},
		{
			name:      "null inquiry fields",
			variables: `{"inquiry": {"customerName": null, "eventDate": null}, "options": null}`,
			check: func(t *testing.T, in *Input) {
				assert.Empty(t, in.Inquiry.CustomerName)
				assert.Empty(t, in.Options)
			},
		},
		{
			name:      "options with courses",
			variables: `{"options": [{"packageName": "Menu A", "guestCount": 20, "totalAmount": 1200, "courses": [{"courseType": "starter", "itemName": "Vitello tonnato"}]}]}`,
			check: func(t *testing.T, in *Input) {
				require.Len(t, in.Options, 1)
				assert.Equal(t, "Vitello tonnato", in.Options[0].Courses[0].ItemName)
			},
		},
		{name: "options not an array", variables: `{"options": "menu A"}`, wantErr: true},
		{
			name:      "negative total",
			variables: `{"options": [{"totalAmount": 1200}, {"totalAmount": -50}]}`,
			check: func(t *testing.T, in *Input) {
				require.Len(t, in.Options, 2)
				assert.Equal(t, -50.0, in.Options[1].TotalAmount)
			},
		},
		{
			name:      "course without item and drink without choice",
			variables: `{"options": [{"courses": [{"courseType": "main"}], "drinks": [{"drinkGroup": "coffee"}]}]}`,
			check: func(t *testing.T, in *Input) {
				require.Len(t, in.Options, 1)
				assert.Empty(t, in.Options[0].Courses[0].ItemName)
				assert.Empty(t, in.Options[0].Drinks[0].SelectedChoice)
			},
		},
		{name: "total as text", variables: `{"options": [{"totalAmount": "1200"}]}`, wantErr: true},
		{name: "course not an object", variables: `{"options": [{"courses": ["Ossobuco"]}]}`, wantErr: true},
		{name: "template id with spaces", variables: `{"templateId": "Summer Party"}`, wantErr: true},
		{name: "guest count object", variables: `{"inquiry": {"guestCount": {"adults": 10}}}`, wantErr: true},
		{name: "malformed json", variables: `{"inquiry": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := decodeInput(tt.variables)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			tt.check(t, input)
		})
	}
}

func TestValidateVariables_ListsInvalidFields(t *testing.T) {
	err := ValidateVariables([]byte(`{"options": "x", "templateId": 5}`))

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	fields := stdErr.Metadata["invalidFields"].([]string)
	assert.Contains(t, fields, "options")
	assert.Contains(t, fields, "templateId")
	assert.True(t, strings.Contains(stdErr.Details, "options"))
}

// ==========================
// Construction
// ==========================

func TestNewHandler_Validation(t *testing.T) {
	deps := ServiceDependencies{
		Engine:    correspondence.New(correspondence.DefaultSettings()),
		Templates: templates.NewBuiltinSource(),
		Logger:    logger.NewTestLogger(t),
	}

	_, err := NewHandler(HandlerOptions{Config: &Config{Timeout: time.Second}, Dependencies: deps})
	assert.ErrorContains(t, err, "default template id")

	_, err = NewHandler(HandlerOptions{Dependencies: ServiceDependencies{Logger: logger.NewTestLogger(t)}})
	assert.ErrorContains(t, err, "required")

	h, err := NewHandler(HandlerOptions{Dependencies: deps})
	require.NoError(t, err)
	assert.Equal(t, correspondence.TemplateGroupReservation, h.config.DefaultTemplateID)
}
