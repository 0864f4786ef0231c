package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ydl-go/internal/domain"
)

func TestProgressTracker_EmptyEventIsNoop(t *testing.T) {
	tracker := NewProgressTracker(nil)

	assert.False(t, tracker.Merge(domain.Event{}))
	assert.Equal(t, domain.ProgressState{}, tracker.Snapshot())
	assert.Equal(t, domain.ResultOK, tracker.Pending())
}

func TestProgressTracker_FilenameRecordedAndStripped(t *testing.T) {
	files := &FileRecord{}
	tracker := NewProgressTracker(files)

	updated := tracker.Merge(classify("[download] Destination: /tmp/movie.mp4"))

	assert.True(t, updated)
	assert.Equal(t, []string{"/tmp/movie.mp4"}, files.Paths())
	state := tracker.Snapshot()
	require.NotNil(t, state.Filename)
	assert.Equal(t, "movie.mp4", *state.Filename)
}

func TestProgressTracker_MergeKeepsUnrelatedFields(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.Merge(classify("[download] Destination: /tmp/movie.mp4"))
	tracker.Merge(classify("[download]  42.0% of 10.00MiB at 1.20MiB/s ETA 00:10"))
	tracker.Merge(classify("[download] 100% of 10.00MiB"))

	state := tracker.Snapshot()
	assert.Equal(t, "movie.mp4", *state.Filename)
	assert.Equal(t, "42.0%", *state.Percent)
	assert.Equal(t, "10.00MiB", *state.Filesize)
	assert.Equal(t, "", *state.Speed)
	assert.Equal(t, "", *state.ETA)
	assert.Equal(t, domain.ProgressDownloading, *state.Status)
	assert.Nil(t, state.PlaylistIndex)
}

func TestProgressTracker_StatusOverwritten(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.Merge(classify("[youtube] abc: Downloading webpage"))
	assert.Equal(t, domain.ProgressPreProcessing, *tracker.Snapshot().Status)

	tracker.Merge(classify("[download] Destination: /tmp/a.mp4"))
	assert.Equal(t, domain.ProgressDownloading, *tracker.Snapshot().Status)

	tracker.Merge(classify("[ffmpeg] Merging formats"))
	assert.Equal(t, domain.ProgressPostProcessing, *tracker.Snapshot().Status)
	assert.Equal(t, "a.mp4", *tracker.Snapshot().Filename)
}

func TestProgressTracker_AlreadyDownloaded(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.Merge(classify("[download] Destination: /tmp/a.mp4"))
	updated := tracker.Merge(classify("[download] /tmp/a.mp4 has already been downloaded"))

	assert.True(t, updated)
	assert.Equal(t, domain.ResultAlready, tracker.Pending())
	assert.Nil(t, tracker.Snapshot().Status, "already-downloaded is a result, not a status")
}

func TestProgressTracker_LastSignalWins(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.MarkError()
	tracker.Merge(classify("[download] /tmp/a.mp4 has already been downloaded"))
	assert.Equal(t, domain.ResultAlready, tracker.Pending())

	tracker.MarkError()
	assert.Equal(t, domain.ResultError, tracker.Pending())
}

func TestProgressTracker_SnapshotIsIndependent(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.Merge(classify("[download]  10.0% of 1MiB at 1KiB/s ETA 01:00"))
	snapshot := tracker.Snapshot()
	tracker.Merge(classify("[download]  20.0% of 1MiB at 2KiB/s ETA 00:30"))

	assert.Equal(t, "10.0%", *snapshot.Percent)
	assert.Equal(t, "20.0%", *tracker.Snapshot().Percent)
}

func TestProgressTracker_Playlist(t *testing.T) {
	tracker := NewProgressTracker(nil)

	tracker.Merge(classify("[download] Downloading video 1 of 2"))
	tracker.Merge(classify("[download]  50.0% of 1MiB at 1KiB/s ETA 00:10"))
	tracker.Merge(classify("[download] Downloading video 2 of 2"))

	state := tracker.Snapshot()
	assert.Equal(t, 2, *state.PlaylistIndex)
	assert.Equal(t, 2, *state.PlaylistSize)
	assert.Equal(t, "50.0%", *state.Percent)
}

func TestFileRecord(t *testing.T) {
	var files FileRecord

	files.Add("/tmp/a.f137.mp4")
	files.Add("/tmp/a.f140.m4a")
	files.Add("/tmp/a.f137.mp4")

	assert.Equal(t, []string{"/tmp/a.f137.mp4", "/tmp/a.f140.m4a"}, files.Paths())

	paths := files.Paths()
	paths[0] = "changed"
	assert.Equal(t, "/tmp/a.f137.mp4", files.Paths()[0])

	files.Reset()
	assert.Empty(t, files.Paths())
}
