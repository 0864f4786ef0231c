package domain

// OutputFormat selects how downloaded files are named
type OutputFormat string

const (
	OutputByID     OutputFormat = "id"
	OutputByTitle  OutputFormat = "title"
	OutputTemplate OutputFormat = "custom"
)

// Options is the read-only snapshot of downloader options used to build argv.
// Sentinel values mean "not configured": Retries 10, PlaylistStart 1,
// PlaylistEnd 0, MaxDownloads 0, MinFilesize/MaxFilesize "0",
// VideoFormat "default", AudioQuality "mid".
type Options struct {
	SavePath          string       `mapstructure:"save_path" json:"save_path" yaml:"save_path"`
	OutputFormat      OutputFormat `mapstructure:"output_format" json:"output_format" yaml:"output_format"`
	OutputTemplate    string       `mapstructure:"output_template" json:"output_template" yaml:"output_template"`
	RestrictFilenames bool         `mapstructure:"restrict_filenames" json:"restrict_filenames" yaml:"restrict_filenames"`

	Username      string `mapstructure:"username" json:"username" yaml:"username"`
	Password      string `mapstructure:"password" json:"-" yaml:"password"`
	VideoPassword string `mapstructure:"video_password" json:"-" yaml:"video_password"`

	Retries   int    `mapstructure:"retries" json:"retries" yaml:"retries"`
	Proxy     string `mapstructure:"proxy" json:"proxy" yaml:"proxy"`
	UserAgent string `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
	Referer   string `mapstructure:"referer" json:"referer" yaml:"referer"`

	VideoFormat     string `mapstructure:"video_format" json:"video_format" yaml:"video_format"`
	DashAudioFormat string `mapstructure:"dash_audio_format" json:"dash_audio_format" yaml:"dash_audio_format"`
	ClearDashFiles  bool   `mapstructure:"clear_dash_files" json:"clear_dash_files" yaml:"clear_dash_files"`

	PlaylistStart int `mapstructure:"playlist_start" json:"playlist_start" yaml:"playlist_start"`
	PlaylistEnd   int `mapstructure:"playlist_end" json:"playlist_end" yaml:"playlist_end"`
	MaxDownloads  int `mapstructure:"max_downloads" json:"max_downloads" yaml:"max_downloads"`

	IgnoreErrors     bool   `mapstructure:"ignore_errors" json:"ignore_errors" yaml:"ignore_errors"`
	WriteDescription bool   `mapstructure:"write_description" json:"write_description" yaml:"write_description"`
	WriteInfo        bool   `mapstructure:"write_info" json:"write_info" yaml:"write_info"`
	WriteThumbnail   bool   `mapstructure:"write_thumbnail" json:"write_thumbnail" yaml:"write_thumbnail"`
	MinFilesize      string `mapstructure:"min_filesize" json:"min_filesize" yaml:"min_filesize"`
	MaxFilesize      string `mapstructure:"max_filesize" json:"max_filesize" yaml:"max_filesize"`

	WriteAllSubs  bool   `mapstructure:"write_all_subs" json:"write_all_subs" yaml:"write_all_subs"`
	WriteAutoSubs bool   `mapstructure:"write_auto_subs" json:"write_auto_subs" yaml:"write_auto_subs"`
	WriteSubs     bool   `mapstructure:"write_subs" json:"write_subs" yaml:"write_subs"`
	SubsLang      string `mapstructure:"subs_lang" json:"subs_lang" yaml:"subs_lang"`
	EmbedSubs     bool   `mapstructure:"embed_subs" json:"embed_subs" yaml:"embed_subs"`

	ToAudio      bool   `mapstructure:"to_audio" json:"to_audio" yaml:"to_audio"`
	AudioFormat  string `mapstructure:"audio_format" json:"audio_format" yaml:"audio_format"`
	AudioQuality string `mapstructure:"audio_quality" json:"audio_quality" yaml:"audio_quality"`
	KeepVideo    bool   `mapstructure:"keep_video" json:"keep_video" yaml:"keep_video"`

	CmdArgs string `mapstructure:"cmd_args" json:"cmd_args" yaml:"cmd_args"`
}

// DefaultOptions returns options with every optional field at its sentinel
func DefaultOptions() Options {
	return Options{
		SavePath:        "$HOME/Downloads",
		OutputFormat:    OutputByTitle,
		OutputTemplate:  "%(uploader)s/%(title)s.%(ext)s",
		Retries:         10,
		VideoFormat:     "default",
		DashAudioFormat: "none",
		PlaylistStart:   1,
		PlaylistEnd:     0,
		MaxDownloads:    0,
		MinFilesize:     "0",
		MaxFilesize:     "0",
		SubsLang:        "English",
		AudioFormat:     "mp3",
		AudioQuality:    "mid",
	}
}
