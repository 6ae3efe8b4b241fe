// internal/workers/maturity/assess-idea-admission/config.go
package assessideaadmission

import (
	"time"

	"idea-scoring/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := time.Duration(wcfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{Timeout: timeout}
}
