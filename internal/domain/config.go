package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Downloader   DownloaderConfig   `mapstructure:"downloader" yaml:"downloader"`
	Queue        QueueConfig        `mapstructure:"queue" yaml:"queue"`
	Notification NotificationConfig `mapstructure:"notification" yaml:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Options      Options            `mapstructure:"options" yaml:"options"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// DownloaderConfig describes how the external downloader is run
type DownloaderConfig struct {
	Binary          string `mapstructure:"binary" yaml:"binary"`
	ConcurrentLimit int    `mapstructure:"concurrent_limit" yaml:"concurrent_limit"`
	LogsDir         string `mapstructure:"logs_dir" yaml:"logs_dir"`
}

// QueueConfig contains queue-related configuration
type QueueConfig struct {
	DatabasePath     string        `mapstructure:"database_path" yaml:"database_path"`
	CheckInterval    time.Duration `mapstructure:"check_interval" yaml:"check_interval"`
	AutoStartWorkers bool          `mapstructure:"auto_start_workers" yaml:"auto_start_workers"`
	AutoExitOnEmpty  bool          `mapstructure:"auto_exit_on_empty" yaml:"auto_exit_on_empty"`
	EmptyWaitTime    time.Duration `mapstructure:"empty_wait_time" yaml:"empty_wait_time"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Method  string `mapstructure:"method" yaml:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`           // json, console
	OutputPath string `mapstructure:"output_path" yaml:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Downloader: DownloaderConfig{
			Binary:          "yt-dlp",
			ConcurrentLimit: 1,
			LogsDir:         "$HOME/.ydl-go/logs",
		},
		Queue: QueueConfig{
			DatabasePath:     "$HOME/.ydl-go/jobs.db",
			CheckInterval:    2 * time.Second,
			AutoStartWorkers: true,
			AutoExitOnEmpty:  false,
			EmptyWaitTime:    5 * time.Minute,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
		Options: DefaultOptions(),
	}
}
