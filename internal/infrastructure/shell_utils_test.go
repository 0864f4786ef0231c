package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain flag", input: "--newline", expected: "--newline"},
		{name: "plain path", input: "/tmp/downloads/", expected: "/tmp/downloads/"},
		{name: "empty", input: "", expected: "''"},
		{name: "output template", input: "/tmp/%(title)s.%(ext)s", expected: "'/tmp/%(title)s.%(ext)s'"},
		{name: "spaces", input: "/tmp/my videos", expected: "'/tmp/my videos'"},
		{name: "single quote", input: "it's", expected: `'it'"'"'s'`},
		{name: "dollar", input: "$HOME", expected: "'$HOME'"},
		{name: "query string", input: "https://youtu.be/x?t=1&list=a", expected: "'https://youtu.be/x?t=1&list=a'"},
		{name: "format selector", input: "137+140", expected: "137+140"},
		{name: "tab", input: "a\tb", expected: "'a\tb'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteArg(tt.input))
		})
	}
}

func TestFormatCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		binary   string
		args     []string
		expected string
	}{
		{
			name:     "no args",
			binary:   "yt-dlp",
			expected: "yt-dlp",
		},
		{
			name:     "minimal download",
			binary:   "yt-dlp",
			args:     []string{"--newline", "-o", "/tmp/%(title)s.%(ext)s", "https://youtu.be/abc"},
			expected: "yt-dlp --newline -o '/tmp/%(title)s.%(ext)s' https://youtu.be/abc",
		},
		{
			name:     "binary with space",
			binary:   "/opt/my tools/youtube-dl",
			args:     []string{"--version"},
			expected: "'/opt/my tools/youtube-dl' --version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCommandLine(tt.binary, tt.args...))
		})
	}
}

func TestQuoteArg_NormalCharsUntouched(t *testing.T) {
	for _, s := range []string{"abcABC123", "_-./:@=+", "mp4"} {
		assert.Equal(t, s, QuoteArg(s))
	}
}
