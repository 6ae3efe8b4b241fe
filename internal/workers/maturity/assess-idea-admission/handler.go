// internal/workers/maturity/assess-idea-admission/handler.go
package assessideaadmission

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"idea-scoring/internal/common/errors"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/common/metrics"
	"idea-scoring/internal/common/observability"
	"idea-scoring/internal/models"
	"idea-scoring/internal/service"
)

const (
	TaskType = service.TaskAdmission
)

type Admitter interface {
	Admit(ctx context.Context, req models.AdmissionRequest) models.AdmissionResult
}

type Handler struct {
	config     *Config
	admitter   Admitter
	decoder    *service.Decoder
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

func NewHandler(config *Config, admitter Admitter, decoder *service.Decoder, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		admitter:   admitter,
		decoder:    decoder,
		errHandler: errors.NewErrorHandler(scoped),
		obs:        obs,
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.decoder.DecodeAdmission([]byte(job.Variables))
	if err != nil {
		stdErr := errors.AsStandard(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	output := h.execute(ctx, input)

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

// execute never fails: a weak description is a low score, not an error.
func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	result := h.admitter.Admit(ctx, *input)
	return &Output{
		AdmissionScore:     result.Score,
		AdmissionVerdict:   result.Verdict,
		IsWillingToDiscuss: result.IsWillingToDiscuss,
		Admission:          result,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
