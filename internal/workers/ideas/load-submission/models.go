// internal/workers/ideas/load-submission/models.go
package loadsubmission

import "idea-workers/internal/models"

type Input struct {
	SubmissionID string `json:"submissionId"`
}

type Output struct {
	Submission *models.Submission `json:"submission"`
	FromCache  bool               `json:"fromCache"`
}
