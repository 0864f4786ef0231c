package infrastructure

import (
	"strconv"
	"strings"

	"github.com/yourusername/ydl-go/internal/domain"
)

// Output markers printed by youtube-dl / yt-dlp
const (
	downloadHeader     = "[download]"
	destinationMarker  = "Destination:"
	completedPercent   = "100%"
	downloadedMarker   = "downloaded"
	playlistMarkerVerb = "Downloading"
	playlistMarkerNoun = "video"
)

// postProcessHeaders are the headers printed while ffmpeg works on the files.
// yt-dlp splits the old [ffmpeg] header into per-step names.
var postProcessHeaders = map[string]bool{
	"[ffmpeg]":       true,
	"[Merger]":       true,
	"[ExtractAudio]": true,
}

// LineClassifier turns one raw output line into a sparse progress event
type LineClassifier interface {
	Classify(line string) domain.Event
}

// FixedPositionClassifier reads the progress line by token position:
//
//	[download]  42.0% of 10.00MiB at 1.20MiB/s ETA 00:10
//	             t[0] t[1] t[2]  t[3] t[4]   t[5] t[6]
//
// The downloader's line layout is not a stable interface; missing tokens
// only skip the field they would have filled.
type FixedPositionClassifier struct{}

// NewFixedPositionClassifier creates the default classifier
func NewFixedPositionClassifier() *FixedPositionClassifier {
	return &FixedPositionClassifier{}
}

// Classify implements LineClassifier
func (c *FixedPositionClassifier) Classify(line string) domain.Event {
	var ev domain.Event

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return ev
	}

	header, rest := tokens[0], tokens[1:]

	switch {
	case header == downloadHeader:
		ev.Status = domain.StatusPtr(domain.ProgressDownloading)
		classifyDownloadLine(rest, &ev)
	case postProcessHeaders[header]:
		ev.Status = domain.StatusPtr(domain.ProgressPostProcessing)
	default:
		ev.Status = domain.StatusPtr(domain.ProgressPreProcessing)
	}

	return ev
}

func classifyDownloadLine(tokens []string, ev *domain.Event) {
	if len(tokens) == 0 {
		return
	}

	if tokens[0] == destinationMarker && len(tokens) > 1 {
		ev.Filename = domain.StringPtr(strings.Join(tokens[1:], " "))
	}

	if strings.Contains(tokens[0], "%") {
		if tokens[0] == completedPercent {
			ev.Speed = domain.StringPtr("")
			ev.ETA = domain.StringPtr("")
		} else {
			ev.Percent = domain.StringPtr(tokens[0])
			ev.Filesize = tokenAt(tokens, 2)
			ev.Speed = tokenAt(tokens, 4)
			ev.ETA = tokenAt(tokens, 6)
		}
	}

	// [download] Downloading video 3 of 12
	if len(tokens) > 1 && tokens[0] == playlistMarkerVerb && tokens[1] == playlistMarkerNoun {
		ev.PlaylistIndex = intTokenAt(tokens, 2)
		ev.PlaylistSize = intTokenAt(tokens, 4)
	}

	if tokens[len(tokens)-1] == downloadedMarker {
		ev.Status = domain.StatusPtr(domain.ProgressAlreadyDownloaded)
	}
}

func tokenAt(tokens []string, i int) *string {
	if i >= len(tokens) {
		return nil
	}
	return domain.StringPtr(tokens[i])
}

func intTokenAt(tokens []string, i int) *int {
	if i >= len(tokens) {
		return nil
	}
	n, err := strconv.Atoi(tokens[i])
	if err != nil {
		return nil
	}
	return domain.IntPtr(n)
}
