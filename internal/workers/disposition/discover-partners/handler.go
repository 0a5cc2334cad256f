// internal/workers/disposition/discover-partners/handler.go
package discoverpartners

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/metrics"
	"disposition-engine/internal/engine"
	"disposition-engine/internal/models"
)

const (
	TaskType = "discover-partners"
)

type Handler struct {
	config       *Config
	engine       *engine.Engine
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		engine:       eng,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	raw := []byte(job.Variables)
	if err := validateInput(raw); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(err))).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		parseErr := commonerrors.NewParseError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(parseErr))).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, parseErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(err))).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	response, err := h.engine.Search(ctx, input.ScenarioRequest)
	if err != nil {
		return nil, err
	}

	h.logger.Info("partner discovery complete", map[string]interface{}{
		"scenarioId":   response.ScenarioID,
		"partnerTypes": response.PartnerTypes,
		"resultCount":  len(response.Results),
	})

	return &Output{PartnerDiscovery: response}, nil
}

// Execute exposes the core logic for tests and embedded callers.
func (h *Handler) Execute(ctx context.Context, req models.ScenarioRequest) (*Output, error) {
	return h.execute(ctx, &Input{ScenarioRequest: req})
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}
