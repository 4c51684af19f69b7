// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/logger"
)

// WorkerRegistry opens job workers and closes them together on shutdown.
type WorkerRegistry struct {
	client  zbc.Client
	log     logger.Logger
	workers map[string]worker.JobWorker
}

func NewWorkerRegistry(client zbc.Client, log logger.Logger) *WorkerRegistry {
	return &WorkerRegistry{
		client:  client,
		log:     log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless the worker is disabled.
// It reports whether a worker was opened.
func (r *WorkerRegistry) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		r.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	r.workers[taskType] = r.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Name(taskType).
		Open()

	r.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the running workers.
func (r *WorkerRegistry) TaskTypes() []string {
	types := make([]string, 0, len(r.workers))
	for t := range r.workers {
		types = append(types, t)
	}
	return types
}

// Close stops every worker and waits for in-flight jobs.
func (r *WorkerRegistry) Close() {
	for taskType, w := range r.workers {
		w.Close()
		w.AwaitClose()
		r.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	r.workers = make(map[string]worker.JobWorker)
}
