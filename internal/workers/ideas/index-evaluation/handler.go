// internal/workers/ideas/index-evaluation/handler.go
package indexevaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
)

const (
	TaskType = "index-evaluation"
)

var (
	ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")
	ErrIndexFailed           = errors.New("INDEX_FAILED")
	ErrIndexNotFound         = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config   *Config
	esClient *elasticsearch.Client
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, esClient *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		esClient: esClient,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
		now:      time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, start, fmt.Errorf("%w: %v", ErrSubmissionParseFailed, err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}
	h.completeJob(client, job, start, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Evaluation == nil {
		return nil, fmt.Errorf("%w: evaluation is required", ErrSubmissionParseFailed)
	}
	doc := h.buildDocument(input)
	if doc.SubmissionID == "" {
		return nil, fmt.Errorf("%w: submissionId is required", ErrSubmissionParseFailed)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.IndexName,
		DocumentID: doc.SubmissionID,
		Body:       bytes.NewReader(body),
	}
	if h.config.Refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, h.esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, h.config.IndexName)
		}
		return nil, fmt.Errorf("%w: %s", ErrIndexFailed, res.Status())
	}

	h.logger.Info("evaluation indexed", map[string]interface{}{
		"submissionId": doc.SubmissionID,
		"index":        h.config.IndexName,
	})
	return &Output{Indexed: true, DocumentID: doc.SubmissionID, Index: h.config.IndexName}, nil
}

// buildDocument flattens the evaluation, plus the submission text when
// present, into the indexed shape. Re-indexing a submission overwrites its
// previous document.
func (h *Handler) buildDocument(input *Input) *Document {
	ev := input.Evaluation
	doc := &Document{
		SubmissionID:      strings.TrimSpace(ev.SubmissionID),
		EvaluationID:      input.EvaluationID,
		PriorityTags:      ev.PriorityTags,
		PrioritySource:    ev.PrioritySource,
		QualificationTier: ev.Score.QualificationTier,
		GatingState:       ev.Score.State,
		BudgetTier:        ev.InferredAttributes.BudgetTier,
		LocationType:      ev.InferredAttributes.LocationType,
		Complexity:        ev.InferredAttributes.Complexity,
		Stage1Total:       ev.Score.Stage1.Total,
		CombinedTotal:     ev.Score.CombinedTotal,
		BreakEvenMonths:   ev.BreakEvenMonths,
		OverallFeedback:   ev.Feedback.Overall.Score,
		RulesVersion:      ev.RulesVersion,
		IndexedAt:         h.now().UTC().Format(time.RFC3339),
	}
	if doc.PriorityTags == nil {
		doc.PriorityTags = []models.PriorityTag{}
	}
	if ev.Score.Stage2 != nil {
		total := ev.Score.Stage2.Total
		doc.Stage2Total = &total
	}
	if s := input.Submission; s != nil {
		if doc.SubmissionID == "" {
			doc.SubmissionID = s.ID
		}
		doc.Title = s.Title
		doc.Category = s.Category
		doc.Location = s.Location
		doc.FullText = evaluation.FullText(s)
	}
	return doc
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, start time.Time, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	bpmnErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, bpmnErr.Code)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
