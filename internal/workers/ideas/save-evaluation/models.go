// internal/workers/ideas/save-evaluation/models.go
package saveevaluation

import "idea-workers/internal/models"

type Input struct {
	Evaluation *models.Evaluation `json:"evaluation"`
}

type Output struct {
	EvaluationID string `json:"evaluationId"`
	SavedAt      string `json:"savedAt"`
}
