package infrastructure

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/ydl-go/internal/domain"
)

// Lookup tables from option names to downloader codes
var (
	subsLanguages = map[string]string{
		"English":    "en",
		"Greek":      "gr",
		"Portuguese": "pt",
		"French":     "fr",
		"Italian":    "it",
		"Russian":    "ru",
		"Spanish":    "es",
		"German":     "de",
	}

	videoFormats = map[string]string{
		"default":         "0",
		"mp4 [1280x720]":  "22",
		"mp4 [640x360]":   "18",
		"webm [640x360]":  "43",
		"flv [400x240]":   "5",
		"3gp [320x240]":   "36",
		"mp4 1080p(DASH)": "137",
		"mp4 720p(DASH)":  "136",
		"mp4 480p(DASH)":  "135",
		"mp4 360p(DASH)":  "134",
	}

	dashAudioFormats = map[string]string{
		"none":                "none",
		"DASH m4a audio 128k": "140",
		"DASH webm audio 48k": "171",
	}

	audioQualities = map[string]string{
		"high": "0",
		"mid":  "5",
		"low":  "9",
	}
)

// Sentinel values the downloader treats as "not set"
const (
	defaultRetries       = 10
	defaultPlaylistStart = 1
	defaultVideoFormat   = "default"
	defaultAudioQuality  = "mid"
	unsetFilesize        = "0"
)

// BuildArgs translates options into the downloader argument list, URL excluded.
// The order of the groups is fixed.
func BuildArgs(opts domain.Options) ([]string, error) {
	b := &argsBuilder{opts: opts}

	steps := []func() error{
		b.progressOptions,
		b.outputOptions,
		b.authOptions,
		b.connectionOptions,
		b.videoOptions,
		b.playlistOptions,
		b.filesystemOptions,
		b.subtitlesOptions,
		b.audioOptions,
		b.extraOptions,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return b.args, nil
}

// IsDash reports whether a video or audio format name is a DASH stream
func IsDash(format string) bool {
	return strings.Contains(format, "DASH")
}

// IsDashMux reports whether opts select separate DASH video and audio
// streams that the downloader merges into one file
func IsDashMux(opts domain.Options) bool {
	return IsDash(opts.VideoFormat) && IsDash(opts.DashAudioFormat)
}

type argsBuilder struct {
	opts domain.Options
	args []string
}

func (b *argsBuilder) add(args ...string) {
	b.args = append(b.args, args...)
}

// progressOptions must stay first, the line classifier depends on it
func (b *argsBuilder) progressOptions() error {
	b.add("--newline")
	return nil
}

func (b *argsBuilder) outputOptions() error {
	savePath := fixPath(b.opts.SavePath)

	switch b.opts.OutputFormat {
	case domain.OutputByID:
		b.add("-o", savePath+"%(id)s.%(ext)s")
	case domain.OutputByTitle:
		b.add("-o", savePath+"%(title)s.%(ext)s")
	case domain.OutputTemplate:
		b.add("-o", savePath+b.opts.OutputTemplate)
	default:
		return &domain.ConfigurationError{Option: "output format", Value: string(b.opts.OutputFormat)}
	}

	if b.opts.RestrictFilenames {
		b.add("--restrict-filenames")
	}
	return nil
}

func (b *argsBuilder) authOptions() error {
	if b.opts.Username != "" {
		b.add("-u", b.opts.Username)
	}
	if b.opts.Password != "" {
		b.add("-p", b.opts.Password)
	}
	if b.opts.VideoPassword != "" {
		b.add("--video-password", b.opts.VideoPassword)
	}
	return nil
}

func (b *argsBuilder) connectionOptions() error {
	if b.opts.Retries != defaultRetries {
		b.add("-R", strconv.Itoa(b.opts.Retries))
	}
	if b.opts.Proxy != "" {
		b.add("--proxy", b.opts.Proxy)
	}
	if b.opts.UserAgent != "" {
		b.add("--user-agent", b.opts.UserAgent)
	}
	if b.opts.Referer != "" {
		b.add("--referer", b.opts.Referer)
	}
	return nil
}

func (b *argsBuilder) videoOptions() error {
	if b.opts.VideoFormat == defaultVideoFormat {
		return nil
	}

	format, ok := videoFormats[b.opts.VideoFormat]
	if !ok {
		return &domain.ConfigurationError{Option: "video format", Value: b.opts.VideoFormat}
	}

	if IsDashMux(b.opts) {
		audio, ok := dashAudioFormats[b.opts.DashAudioFormat]
		if !ok {
			return &domain.ConfigurationError{Option: "DASH audio format", Value: b.opts.DashAudioFormat}
		}
		format += "+" + audio
	}

	b.add("-f", format)
	return nil
}

func (b *argsBuilder) playlistOptions() error {
	if b.opts.PlaylistStart != defaultPlaylistStart {
		b.add("--playlist-start", strconv.Itoa(b.opts.PlaylistStart))
	}
	if b.opts.PlaylistEnd != 0 {
		b.add("--playlist-end", strconv.Itoa(b.opts.PlaylistEnd))
	}
	if b.opts.MaxDownloads != 0 {
		b.add("--max-downloads", strconv.Itoa(b.opts.MaxDownloads))
	}
	return nil
}

func (b *argsBuilder) filesystemOptions() error {
	if b.opts.IgnoreErrors {
		b.add("-i")
	}
	if b.opts.WriteDescription {
		b.add("--write-description")
	}
	if b.opts.WriteInfo {
		b.add("--write-info-json")
	}
	if b.opts.WriteThumbnail {
		b.add("--write-thumbnail")
	}
	if isSetFilesize(b.opts.MinFilesize) {
		b.add("--min-filesize", b.opts.MinFilesize)
	}
	if isSetFilesize(b.opts.MaxFilesize) {
		b.add("--max-filesize", b.opts.MaxFilesize)
	}
	return nil
}

func (b *argsBuilder) subtitlesOptions() error {
	if b.opts.WriteAllSubs {
		b.add("--all-subs")
	}
	if b.opts.WriteAutoSubs {
		b.add("--write-auto-sub")
	}
	if b.opts.WriteSubs {
		lang, ok := subsLanguages[b.opts.SubsLang]
		if !ok {
			return &domain.ConfigurationError{Option: "subtitles language", Value: b.opts.SubsLang}
		}
		b.add("--write-sub", "--sub-lang", lang)
	}
	if b.opts.EmbedSubs {
		b.add("--embed-subs")
	}
	return nil
}

func (b *argsBuilder) audioOptions() error {
	if !b.opts.ToAudio {
		return nil
	}

	b.add("-x", "--audio-format", b.opts.AudioFormat)

	if b.opts.AudioQuality != defaultAudioQuality {
		quality, ok := audioQualities[b.opts.AudioQuality]
		if !ok {
			return &domain.ConfigurationError{Option: "audio quality", Value: b.opts.AudioQuality}
		}
		b.add("--audio-quality", quality)
	}

	if b.opts.KeepVideo {
		b.add("-k")
	}
	return nil
}

func (b *argsBuilder) extraOptions() error {
	b.add(strings.Fields(b.opts.CmdArgs)...)
	return nil
}

// fixPath expands a leading ~ and makes sure a non-empty path ends with a separator
func fixPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}

	if !strings.HasSuffix(path, string(filepath.Separator)) && !strings.HasSuffix(path, "/") {
		path += string(filepath.Separator)
	}
	return path
}

func isSetFilesize(size string) bool {
	return size != "" && size != unsetFilesize
}
