// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 2)

	act, ok := reg.Find("assess-idea-maturity")
	require.True(t, ok)
	assert.Equal(t, "idea.maturity.assess", act.ID)
	assert.Equal(t, "object", act.InputSchema["type"])

	_, ok = reg.Find("unknown-task")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0.0","activities":[{"id":"a.b.c","taskType":"t"}]}`), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reg.Version)

	_, err = Parse([]byte("{"))
	assert.Error(t, err)
}

func TestActivity_TimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout  string
		expected time.Duration
		wantErr  bool
	}{
		{timeout: "", expected: 0},
		{timeout: "10s", expected: 10 * time.Second},
		{timeout: "1m30s", expected: 90 * time.Second},
		{timeout: "ten seconds", wantErr: true},
		{timeout: "-5s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			act := Activity{ID: "idea.maturity.assess", Timeout: tt.timeout}
			d, err := act.TimeoutDuration()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}

	reg, err := Default()
	require.NoError(t, err)
	for i := range reg.Activities {
		_, err := reg.Activities[i].TimeoutDuration()
		assert.NoError(t, err, reg.Activities[i].ID)
	}
}
