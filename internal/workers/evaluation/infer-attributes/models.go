// internal/workers/evaluation/infer-attributes/models.go
package inferattributes

import "idea-workers/internal/models"

type Input struct {
	Submission *models.Submission `json:"submission"`
}

type Output struct {
	InferredAttributes models.InferredAttributes `json:"inferredAttributes"`
}
