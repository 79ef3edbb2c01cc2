// internal/workers/ideas/index-evaluation/models.go
package indexevaluation

import "idea-workers/internal/models"

type Input struct {
	Submission   *models.Submission `json:"submission"`
	Evaluation   *models.Evaluation `json:"evaluation"`
	EvaluationID string             `json:"evaluationId,omitempty"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	DocumentID string `json:"documentId"`
	Index      string `json:"index"`
}

// Document is the search representation of one evaluated submission.
type Document struct {
	SubmissionID      string                   `json:"submissionId"`
	EvaluationID      string                   `json:"evaluationId,omitempty"`
	Title             string                   `json:"title"`
	Category          models.Category          `json:"category"`
	Location          string                   `json:"location"`
	PriorityTags      []models.PriorityTag     `json:"priorityTags"`
	PrioritySource    string                   `json:"prioritySource"`
	QualificationTier models.QualificationTier `json:"qualificationTier"`
	GatingState       models.GatingState       `json:"gatingState"`
	BudgetTier        models.BudgetTier        `json:"budgetTier"`
	LocationType      models.LocationType      `json:"locationType"`
	Complexity        models.Complexity        `json:"complexity"`
	Stage1Total       int                      `json:"stage1Total"`
	Stage2Total       *int                     `json:"stage2Total,omitempty"`
	CombinedTotal     int                      `json:"combinedTotal"`
	BreakEvenMonths   *int                     `json:"breakEvenMonths,omitempty"`
	OverallFeedback   float64                  `json:"overallFeedback"`
	RulesVersion      string                   `json:"rulesVersion"`
	FullText          string                   `json:"fullText"`
	IndexedAt         string                   `json:"indexedAt"`
}
