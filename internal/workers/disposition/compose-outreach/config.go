// internal/workers/disposition/compose-outreach/config.go
package composeoutreach

import (
	"time"

	"disposition-engine/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       time.Duration(wc.Timeout) * time.Millisecond,
		MaxJobsActive: wc.MaxJobsActive,
	}
}
