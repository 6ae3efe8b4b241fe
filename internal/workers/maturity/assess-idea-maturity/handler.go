// internal/workers/maturity/assess-idea-maturity/handler.go
package assessideamaturity

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
	TaskType = service.TaskMaturity
)

type Assessor interface {
	Assess(ctx context.Context, req models.MaturityRequest) (*models.MaturityAssessment, error)
}

type Handler struct {
	config     *Config
	assessor   Assessor
	decoder    *service.Decoder
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

func NewHandler(config *Config, assessor Assessor, decoder *service.Decoder, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		assessor:   assessor,
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

	input, err := h.decoder.DecodeMaturity([]byte(job.Variables))
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInputValidationError("input cannot be nil")
	}

	assessment, err := h.assessor.Assess(ctx, *input)
	if err != nil {
		return nil, err
	}

	return &Output{
		AssessmentID:     assessment.AssessmentID,
		TotalScore:       assessment.Result.TotalScore,
		MaturityLevel:    assessment.Result.Level,
		WorkshopUnlocked: assessment.WorkshopAccess.Unlocked,
		Result:           assessment.Result,
		WorkshopAccess:   assessment.WorkshopAccess,
		PersistenceError: assessment.PersistenceError,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
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

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.AsStandard(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
