// internal/common/camunda/client_test.go
package camunda

import (
	stderrors "errors"
	"testing"
	"time"

	"idea-scoring/internal/common/config"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		err      string
		expected bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"read: connection reset by peer", true},
		{"rpc error: code = NotFound desc = job not found", false},
		{"permission denied", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryableZeebeError(stderrors.New(tt.err)))
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 2500})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 2500*time.Millisecond, cfg.ConnectionTimeout)
	assert.Same(t, DefaultRetryConfig, cfg.RetryConfig)

	cfg = ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500"})
	assert.Equal(t, 10*time.Second, cfg.ConnectionTimeout)
}
