// internal/workers/correspondence/select-template/handler.go
package selecttemplate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"correspondence-workers/internal/common/camunda"
	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/metrics"
	"correspondence-workers/internal/templates"
)

const TaskType = "select-template"

type Handler struct {
	config       *Config
	templates    templates.Source
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. templates is used to check an explicit
// template type; without it every explicit type is accepted.
func NewHandler(cfg *Config, source templates.Source, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		templates:    source,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		timer.Done(string(errors.ErrCodeInvalidInput))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr := errors.Normalize(err)
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		timer.Done(string(stdErr.Code))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		timer.Done("COMPLETE_FAILED")
		return
	}
	timer.Done("")
}

// Execute picks a template: a known explicit template type first, then the
// first matching rule, then the default.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if explicit := normalize(input.TemplateType); explicit != "" {
		known, err := h.isKnown(ctx, explicit)
		if err != nil {
			return nil, err
		}
		if known {
			return h.selected(explicit, MatchedExplicit, input), nil
		}
		h.logger.Warn("unknown template type, falling back to rules", map[string]interface{}{
			"templateType": input.TemplateType,
		})
	}

	if rule, ok := MatchRule(h.config.Rules, input); ok {
		return h.selected(rule.TemplateID, rule.Name, input), nil
	}
	return h.selected(h.config.DefaultTemplateID, MatchedDefault, input), nil
}

func (h *Handler) selected(id, matched string, input *Input) *Output {
	h.logger.Info("template selected", map[string]interface{}{
		"eventType":  input.EventType,
		"templateId": id,
		"matched":    matched,
	})
	return &Output{SelectedTemplateId: id, MatchedRule: matched}
}

func (h *Handler) isKnown(ctx context.Context, id string) (bool, error) {
	if h.templates == nil {
		return true, nil
	}
	_, err := h.templates.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, templates.ErrTemplateNotFound):
		return false, nil
	default:
		return false, err
	}
}

// MatchRule returns the first rule whose keyword occurs in the event type,
// ignoring case, or whose guest threshold the inquiry reaches.
func MatchRule(rules []config.SelectionRule, input *Input) (config.SelectionRule, bool) {
	eventType := normalize(input.EventType)
	guests, guestsKnown := input.GuestCount.Int()

	for _, rule := range rules {
		if eventType != "" {
			for _, kw := range rule.Keywords {
				if kw = normalize(kw); kw != "" && strings.Contains(eventType, kw) {
					return rule, true
				}
			}
		}
		if rule.MinGuests > 0 && guestsKnown && guests >= rule.MinGuests {
			return rule, true
		}
	}
	return config.SelectionRule{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
