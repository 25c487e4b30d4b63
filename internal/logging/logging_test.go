package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

func TestLogFilePath(t *testing.T) {
	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{"plain dir", "weedlogs", filepath.Join("weedlogs", "spreading_weeds.20260212_213836.log")},
		{"dot prefix", "./weedlogs", filepath.Join("weedlogs", "spreading_weeds.20260212_213836.log")},
		{"absolute", filepath.Join("/var", "log", "sw"), filepath.Join("/var", "log", "sw", "spreading_weeds.20260212_213836.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "spreading_weeds", sessionStart))
		})
	}
}

func TestOpenSessionLog_MovesAsidePrevious(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	first, err := OpenSessionLog(dir, "sw", sessionStart)
	require.NoError(t, err)
	_, err = first.WriteString("first run\n")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSessionLog(dir, "sw", sessionStart)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	path := LogFilePath(dir, "sw", sessionStart)
	old, err := os.ReadFile(path + ".old")
	require.NoError(t, err)
	assert.Equal(t, "first run\n", string(old))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, current)
}
