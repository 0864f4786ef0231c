package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	log, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)
	log.Debug("hello", zap.String("k", "v"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", Format: "console", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func newTestMultiLogger(t *testing.T) *MultiLogger {
	t.Helper()
	ml, err := NewMultiLogger(MultiLoggerConfig{Level: "info", LogsDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { ml.Close() })
	return ml
}

func TestNewMultiLogger_RequiresDir(t *testing.T) {
	_, err := NewMultiLogger(MultiLoggerConfig{})
	assert.Error(t, err)
}

func TestMultiLogger_ToolLoggerTagsJob(t *testing.T) {
	ml := newTestMultiLogger(t)

	ml.ToolLogger("job-1").Log("ERROR: unable to download video data")
	ml.ToolLogger("job-2").Log("WARNING: other job")
	require.NoError(t, ml.Sync())

	reader := NewLogReader(ml.GetLogsDir())
	entries, err := reader.ReadJobLogs("job-1", time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR: unable to download video data", entries[0].Message)
	assert.Equal(t, "job-1", entries[0].JobID)
	assert.Equal(t, "tool", entries[0].Category)
}

func TestMultiLogger_Categories(t *testing.T) {
	ml := newTestMultiLogger(t)

	ml.LogQueueEvent("Job added", zap.String("url", "https://youtu.be/abc"))
	ml.LogAppError("Database unavailable")
	ml.Error().Info("below error level")
	require.NoError(t, ml.Sync())

	reader := NewLogReader(ml.GetLogsDir())

	queue, err := reader.ReadLogs(CategoryQueue, time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "Job added", queue[0].Message)
	assert.Equal(t, "https://youtu.be/abc", queue[0].Fields["url"])

	errs, err := reader.ReadLogs(CategoryError, time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "error", errs[0].Level)
}

func TestMultiLogger_RotatesDaily(t *testing.T) {
	ml := newTestMultiLogger(t)
	day := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)
	ml.now = func() time.Time { return day }

	ml.LogQueueEvent("first day")
	day = day.Add(2 * time.Minute)
	ml.LogQueueEvent("second day")
	require.NoError(t, ml.Sync())

	reader := NewLogReader(ml.GetLogsDir())
	first, err := reader.ReadLogs(CategoryQueue, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), 0)
	require.NoError(t, err)
	second, err := reader.ReadLogs(CategoryQueue, time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), 0)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "first day", first[0].Message)
	assert.Equal(t, "second day", second[0].Message)
}

func TestLogReader_LimitAndSearch(t *testing.T) {
	dir := t.TempDir()
	reader := NewLogReader(dir)
	date := time.Now()

	content := `{"level":"info","timestamp":"t1","message":"Job added"}
not json at all

{"level":"warn","timestamp":"t2","message":"Job stopped"}
{"level":"info","timestamp":"t3","message":"Job finished"}
`
	require.NoError(t, os.WriteFile(reader.GetLogPath(CategoryQueue, date), []byte(content), 0644))

	all, err := reader.ReadLogs(CategoryQueue, date, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "not json at all", all[1].Message)

	last, err := reader.ReadLogs(CategoryQueue, date, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Job stopped", "Job finished"}, []string{last[0].Message, last[1].Message})

	found, err := reader.SearchLogs(CategoryQueue, date, "WARN", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Job stopped", found[0].Message)
}

func TestLogReader_MissingFile(t *testing.T) {
	entries, err := NewLogReader(t.TempDir()).ReadLogs(CategoryTool, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryTool))
	assert.False(t, ValidCategory("download"))
}
