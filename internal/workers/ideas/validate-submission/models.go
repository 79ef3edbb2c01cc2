// internal/workers/ideas/validate-submission/models.go
package validatesubmission

import (
	"encoding/json"

	"idea-workers/internal/common/validation"
)

type Input struct {
	Submission json.RawMessage `json:"submission"`
}

type Output struct {
	IsValid  bool                         `json:"isValid"`
	Errors   []validation.ValidationError `json:"errors"`
	Warnings []Warning                    `json:"warnings"`
}

// Warning flags content that will score poorly but is structurally valid.
type Warning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
