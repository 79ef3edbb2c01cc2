// internal/workers/evaluation/score-decision/models.go
package scoredecision

import "idea-workers/internal/models"

// Input carries the stage 1 result of an earlier score-clarity task. When it
// is absent stage 1 is scored here first.
type Input struct {
	Submission *models.Submission  `json:"submission"`
	Stage1     *models.StageResult `json:"stage1,omitempty"`
}

type Output struct {
	Stage2       models.StageResult `json:"stage2"`
	Stage2Passed bool               `json:"stage2Passed"`
}
