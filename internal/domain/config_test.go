package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8090, config.Server.Port)
	assert.Equal(t, "yt-dlp", config.Downloader.Binary)
	assert.Equal(t, 1, config.Downloader.ConcurrentLimit)
	assert.True(t, config.Queue.AutoStartWorkers)
	assert.False(t, config.Queue.AutoExitOnEmpty)
	assert.Equal(t, 2*time.Second, config.Queue.CheckInterval)
	assert.False(t, config.Notification.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, DefaultOptions(), config.Options)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, OutputByTitle, opts.OutputFormat)
	assert.Equal(t, 10, opts.Retries)
	assert.Equal(t, "default", opts.VideoFormat)
	assert.Equal(t, "none", opts.DashAudioFormat)
	assert.Equal(t, 1, opts.PlaylistStart)
	assert.Equal(t, 0, opts.PlaylistEnd)
	assert.Equal(t, "0", opts.MinFilesize)
	assert.Equal(t, "0", opts.MaxFilesize)
	assert.Equal(t, "mp3", opts.AudioFormat)
	assert.Equal(t, "mid", opts.AudioQuality)
	assert.False(t, opts.ToAudio)
}
