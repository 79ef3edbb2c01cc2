// internal/workers/ideas/evaluation-history/config.go
package evaluationhistory

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
