// internal/workers/correspondence/render-correspondence/handler.go
package rendercorrespondence

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
)

const TaskType = "render-correspondence"

type Handler struct {
	config       *Config
	service      *Service
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	Config       *Config
	Dependencies ServiceDependencies
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Dependencies.Engine == nil || opts.Dependencies.Templates == nil {
		return nil, fmt.Errorf("engine and template source are required")
	}

	log := opts.Dependencies.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	deps := opts.Dependencies
	deps.Logger = log

	return &Handler{
		config:       cfg,
		service:      NewService(deps, cfg),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	code := h.process(ctx, client, job)
	elapsed := timer.Done(code)

	status := "completed"
	if code != "" {
		status = "failed"
	}
	h.service.obs.RecordJobProcessed(ctx, TaskType, status)
	h.service.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
}

// process runs one job and returns the error code it ended with, empty on success.
func (h *Handler) process(ctx context.Context, client worker.JobClient, job entities.Job) string {
	input, err := decodeInput(job.Variables)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
				h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
				return "COMPLETE_FAILED"
			}
			return ""
		}
	}

	stdErr := errors.Normalize(err)
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
	return string(stdErr.Code)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func decodeInput(variables string) (*Input, error) {
	if err := ValidateVariables([]byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}
