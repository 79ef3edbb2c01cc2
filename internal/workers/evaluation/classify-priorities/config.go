// internal/workers/evaluation/classify-priorities/config.go
package classifypriorities

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
