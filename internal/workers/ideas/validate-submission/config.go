// internal/workers/ideas/validate-submission/config.go
package validatesubmission

import "time"

type Config struct {
	Timeout time.Duration
	// MinTextLength is the rune count under which a narrative field draws a
	// warning.
	MinTextLength int
	// FailOnInvalid throws SUBMISSION_VALIDATION_FAILED instead of completing
	// the job with isValid=false.
	FailOnInvalid bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		MinTextLength: 30,
	}
}
