// internal/workers/evaluation/score-clarity/models.go
package scoreclarity

import "idea-workers/internal/models"

type Input struct {
	Submission *models.Submission `json:"submission"`
}

type Output struct {
	Stage1       models.StageResult `json:"stage1"`
	Stage1Passed bool               `json:"stage1Passed"`
}
