// internal/workers/evaluation/classify-priorities/models.go
package classifypriorities

import "idea-workers/internal/models"

type Input struct {
	Submission *models.Submission `json:"submission"`
}

type Output struct {
	PriorityTags   []models.PriorityTag `json:"priorityTags"`
	PrioritySource string               `json:"prioritySource"`
}
