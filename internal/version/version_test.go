package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	// Fields are populated even if "unknown"
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildDate)
	assert.NotEmpty(t, info.InstanceID)
	assert.NotEmpty(t, info.Hostname)
	assert.False(t, info.StartedAt.IsZero())

	// Subsequent calls return the cached instance ID
	info2 := GetInfo()
	assert.Equal(t, info.InstanceID, info2.InstanceID)
	assert.Equal(t, info.Hostname, info2.Hostname)
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name: "full version info",
			info: Info{
				Version:   "1.2.3",
				GitCommit: "abc1234",
				BuildDate: "2026-02-21T10:00:00Z",
			},
			expected: "textchecker version 1.2.3 (commit: abc1234, built: 2026-02-21T10:00:00Z)",
		},
		{
			name:     "unknown build",
			info:     Info{Version: "unknown", GitCommit: "unknown", BuildDate: "unknown"},
			expected: "textchecker version unknown (commit: unknown, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.String())
		})
	}
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "textchecker/v1.0.0", Info{Version: "v1.0.0"}.UserAgent())
}

func TestUptime(t *testing.T) {
	first := Uptime()
	require.GreaterOrEqual(t, first, time.Duration(0))
	time.Sleep(time.Millisecond)
	assert.Greater(t, Uptime(), first)
}

func TestGetHostname(t *testing.T) {
	// Never empty; falls back to "unknown"
	assert.NotEmpty(t, getHostname())
}
