// internal/workers/ideas/evaluation-history/models.go
package evaluationhistory

import "idea-workers/internal/models"

type Input struct {
	QueryType    string `json:"queryType"`
	SubmissionID string `json:"submissionId"`
	Limit        int    `json:"limit,omitempty"`
}

type Output struct {
	Evaluations []models.EvaluationSummary `json:"evaluations"`
	RowCount    int                        `json:"rowCount"`
	// ScoreDelta is the combined-total change between the two newest rows.
	ScoreDelta         *int  `json:"scoreDelta,omitempty"`
	QueryExecutionTime int64 `json:"queryExecutionTime"` // milliseconds
}
