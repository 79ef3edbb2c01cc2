// internal/workers/evaluation/evaluate-idea/models.go
package evaluateidea

import "idea-workers/internal/models"

type Input struct {
	Submission *models.Submission `json:"submission"`
}

// Output repeats the gate outcome at the top level so gateways in the
// process model can branch without reaching into the evaluation.
type Output struct {
	Evaluation        models.Evaluation        `json:"evaluation"`
	QualificationTier models.QualificationTier `json:"qualificationTier"`
	GatingState       models.GatingState       `json:"gatingState"`
	Stage1Passed      bool                     `json:"stage1Passed"`
	Stage2Passed      bool                     `json:"stage2Passed"`
}
