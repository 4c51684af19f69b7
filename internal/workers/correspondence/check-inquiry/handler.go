// internal/workers/correspondence/check-inquiry/handler.go
package checkinquiry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"correspondence-workers/internal/common/camunda"
	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/metrics"
	"correspondence-workers/internal/correspondence"
)

const TaskType = "check-inquiry"

// Handler tells the process which inquiry facts are still missing so it can
// route to a follow-up question before an offer is written.
type Handler struct {
	config       *Config
	engine       *correspondence.Engine
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, engine *correspondence.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		engine:       engine,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		timer.Done(string(errors.ErrCodeInvalidInput))
		return
	}

	output, _ := h.Execute(ctx, &input)
	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		timer.Done("COMPLETE_FAILED")
		return
	}
	timer.Done("")
}

// Execute never fails: an empty inquiry is reported as missing everything.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	ctx := input.Inquiry
	missing := correspondence.MissingFacts(ctx)
	if missing == nil {
		missing = []string{}
	}

	out := &Output{
		MissingFields: missing,
		Checklist:     correspondence.MissingInfoItems(ctx),
		IsComplete:    len(missing) == 0,
		SeatingHint:   correspondence.BuildSeatingHint(ctx),
		EventDetails:  h.engine.BuildEventDetailsSentence(ctx),
	}
	if n, ok := ctx.GuestCount.Int(); ok {
		out.GuestCount = &n
	}

	h.logger.Info("inquiry checked", map[string]interface{}{
		"missing":    missing,
		"isComplete": out.IsComplete,
	})
	return out, nil
}
