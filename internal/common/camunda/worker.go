// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"disposition-engine/internal/common/config"
)

// HandlerFunc is the signature every job handler exposes to the manager.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerManager owns the lifecycle of all registered job workers so
// shutdown can close them as a group before the client disconnects.
type WorkerManager struct {
	client  *Client
	logger  *zap.Logger
	workers []worker.JobWorker
}

func NewWorkerManager(client *Client, logger *zap.Logger) *WorkerManager {
	return &WorkerManager{client: client, logger: logger}
}

// Register opens a job worker for the task type. Disabled workers are
// skipped with a log line so operators can see what is not polling.
func (m *WorkerManager) Register(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	jobWorker := m.client.Raw().NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	m.workers = append(m.workers, jobWorker)
	m.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Close stops all registered workers. The Zeebe client is closed by the
// caller after workers have drained.
func (m *WorkerManager) Close() {
	for _, w := range m.workers {
		w.Close()
	}
	m.logger.Info("all workers stopped", zap.Int("count", len(m.workers)))
}
