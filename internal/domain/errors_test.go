package domain

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("building arguments: %w", &ConfigurationError{Option: "video format", Value: "mkv 8k"})

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
	assert.Contains(t, err.Error(), `unknown video format "mkv 8k"`)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "mkv 8k", cfgErr.Value)
}

func TestProcessSpawnError(t *testing.T) {
	err := &ProcessSpawnError{Binary: "yt-dlp", Err: exec.ErrNotFound}

	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Equal(t, "failed to start yt-dlp: executable file not found in $PATH", err.Error())
	assert.False(t, errors.Is(err, ErrConfiguration))
}
