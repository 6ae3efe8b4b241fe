// pkg/registry/schema.go
package registry

import (
	"fmt"
	"time"
)

// ActivityRegistry is the catalogue of task types this service answers.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one Zeebe task type: its input contract, the error codes
// it may throw and the job timeout the process model should allow.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags"`
}

// TimeoutDuration parses Timeout. An empty value means no timeout was declared.
func (a *Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("activity %s: invalid timeout %q: %w", a.ID, a.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("activity %s: timeout must be positive, got %q", a.ID, a.Timeout)
	}
	return d, nil
}
