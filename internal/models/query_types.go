// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeLatestEvaluation  QueryType = "latest_evaluation"
	QueryTypeEvaluationHistory QueryType = "evaluation_history"
)

// EvaluationSummary is one stored evaluation row without its full payload.
type EvaluationSummary struct {
	EvaluationID      string            `json:"evaluationId"`
	SubmissionID      string            `json:"submissionId"`
	RulesVersion      string            `json:"rulesVersion"`
	Stage1Total       int               `json:"stage1Total"`
	Stage2Total       *int              `json:"stage2Total,omitempty"`
	CombinedTotal     int               `json:"combinedTotal"`
	QualificationTier QualificationTier `json:"qualificationTier"`
	GatingState       GatingState       `json:"gatingState"`
	PriorityTags      []PriorityTag     `json:"priorityTags"`
	PrioritySource    string            `json:"prioritySource"`
	BreakEvenMonths   *int              `json:"breakEvenMonths,omitempty"`
	CreatedAt         string            `json:"createdAt"`
}
