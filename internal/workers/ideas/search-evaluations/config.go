// internal/workers/ideas/search-evaluations/config.go
package searchevaluations

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "idea-evaluations",
	}
}
