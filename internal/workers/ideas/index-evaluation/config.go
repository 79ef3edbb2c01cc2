// internal/workers/ideas/index-evaluation/config.go
package indexevaluation

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
	// Refresh makes the document searchable before the job completes.
	Refresh bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "idea-evaluations",
	}
}
