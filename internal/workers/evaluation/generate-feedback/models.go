// internal/workers/evaluation/generate-feedback/models.go
package generatefeedback

import "idea-workers/internal/models"

type Input struct {
	Submission *models.Submission  `json:"submission,omitempty"`
	Stage1     *models.StageResult `json:"stage1,omitempty"`
	Stage2     *models.StageResult `json:"stage2,omitempty"`
}

type Output struct {
	Feedback          models.FeedbackReport    `json:"feedback"`
	Score             models.ScoreResult       `json:"score"`
	QualificationTier models.QualificationTier `json:"qualificationTier"`
	BreakEvenMonths   *int                     `json:"breakEvenMonths,omitempty"`
}
