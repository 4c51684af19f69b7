// internal/workers/correspondence/render-correspondence/service.go
package rendercorrespondence

import (
	"context"
	stderrors "errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/metrics"
	"correspondence-workers/internal/common/observability"
	"correspondence-workers/internal/common/validation"
	"correspondence-workers/internal/correspondence"
	"correspondence-workers/internal/templates"
)

var schema = validation.MustCompile(inputSchema)

// ServiceDependencies are the collaborators a Service renders with.
type ServiceDependencies struct {
	Engine        *correspondence.Engine
	Templates     templates.Source
	Observability *observability.Observability
	Logger        logger.Logger
}

// Service resolves a template and renders it. The job handler and the HTTP
// preview share it.
type Service struct {
	config    *Config
	engine    *correspondence.Engine
	templates templates.Source
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Service{
		config:    config,
		engine:    deps.Engine,
		templates: deps.Templates,
		obs:       obs,
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// ValidateVariables checks raw job variables or a request body against the
// input schema.
func ValidateVariables(raw []byte) error {
	result, err := schema.ValidateJSON(raw)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidInputError(result.Summary()).
			WithMetadata("invalidFields", fieldNames(result))
	}
	return nil
}

func fieldNames(result *validation.ValidationResult) []string {
	names := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		names = append(names, e.Field)
	}
	return names
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := s.obs.StartSpan(ctx, "correspondence.render")
	defer span.End()

	start := time.Now()
	tmpl, err := s.resolveTemplate(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("template.id", tmpl.ID),
		attribute.Int("template.version", tmpl.Version),
		attribute.Int("offer.options", len(input.Options)),
	)

	doc := s.engine.RenderTemplate(tmpl.Correspondence(), input.Inquiry, input.Options)

	elapsed := time.Since(start)
	metrics.ObserveRender(tmpl.ID, elapsed)
	s.obs.RecordRenderedLength(ctx, tmpl.ID, utf8.RuneCountInString(doc.Body))

	out := &Output{
		RenderID:        uuid.NewString(),
		TemplateID:      tmpl.ID,
		TemplateVersion: tmpl.Version,
		Subject:         doc.Subject,
		Body:            doc.Body,
		RenderedAt:      s.now().UTC().Format(time.RFC3339),
	}

	s.logger.Info("letter rendered", map[string]interface{}{
		"renderId":   out.RenderID,
		"templateId": out.TemplateID,
		"version":    out.TemplateVersion,
		"options":    len(input.Options),
		"bodyChars":  utf8.RuneCountInString(doc.Body),
		"elapsed":    elapsed.String(),
	})
	return out, nil
}

// resolveTemplate prefers an ad-hoc body, then the requested id, then the
// configured default. A subject template overrides the stored subject.
func (s *Service) resolveTemplate(ctx context.Context, input *Input) (*templates.Template, error) {
	if input.TemplateBody != "" {
		return &templates.Template{
			ID:      InlineTemplateID,
			Subject: input.SubjectTemplate,
			Body:    input.TemplateBody,
		}, nil
	}

	id := input.TemplateID
	if id == "" {
		id = s.config.DefaultTemplateID
	}

	tmpl, err := s.templates.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, templates.ErrTemplateNotFound) {
			return nil, errors.NewTemplateNotFoundError(id)
		}
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewTemplateStoreFailedError("get", err)
	}

	if input.SubjectTemplate != "" {
		overridden := *tmpl
		overridden.Subject = input.SubjectTemplate
		return &overridden, nil
	}
	return tmpl, nil
}
