package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/ydl-go/internal/app"
	"github.com/yourusername/ydl-go/internal/domain"
	"github.com/yourusername/ydl-go/internal/infrastructure"
	"github.com/yourusername/ydl-go/pkg/logger"
)

const secretMask = "********"

// exitError carries the process exit status of a finished local download
type exitError struct {
	code   int
	result domain.Result
}

func (e *exitError) Error() string {
	return fmt.Sprintf("download finished with result %s", e.result)
}

// exitCodeForResult maps a download result to a process exit status
func exitCodeForResult(result domain.Result) int {
	switch result {
	case domain.ResultOK, domain.ResultAlready:
		return 0
	case domain.ResultStopped:
		return 130
	default:
		return 1
	}
}

// optionFlags overrides the configured downloader options from the command line
type optionFlags struct {
	savePath    string
	format      string
	audio       bool
	audioFormat string
	playlist    string
	extra       string
}

func (f *optionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.savePath, "output", "o", "", "Directory to save files in")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Video format code, or \"default\"")
	cmd.Flags().BoolVarP(&f.audio, "audio", "x", false, "Extract audio")
	cmd.Flags().StringVar(&f.audioFormat, "audio-format", "", "Audio format used with --audio")
	cmd.Flags().StringVar(&f.playlist, "items", "", "Playlist range as START-END, END 0 for the last item")
	cmd.Flags().StringVar(&f.extra, "cmd-args", "", "Extra arguments passed to the downloader")
}

func (f *optionFlags) apply(cmd *cobra.Command, opts *domain.Options) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.SavePath = f.savePath
	}
	if flags.Changed("format") {
		opts.VideoFormat = f.format
	}
	if flags.Changed("audio") {
		opts.ToAudio = f.audio
	}
	if flags.Changed("audio-format") {
		opts.AudioFormat = f.audioFormat
	}
	if flags.Changed("cmd-args") {
		opts.CmdArgs = f.extra
	}
	if flags.Changed("items") {
		var start, end int
		if _, err := fmt.Sscanf(f.playlist, "%d-%d", &start, &end); err != nil || start < 1 || end < 0 {
			return fmt.Errorf("invalid --items %q, expected START-END", f.playlist)
		}
		opts.PlaylistStart = start
		opts.PlaylistEnd = end
	}
	return nil
}

// writerToolLogger prints downloader stderr to the terminal
type writerToolLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerToolLogger) Log(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "downloader: %s\n", text)
}

// progressPrinter writes one line per distinct progress snapshot
type progressPrinter struct {
	w    io.Writer
	last string
}

func (p *progressPrinter) Print(state domain.ProgressState) {
	line := formatProgress(state)
	if line == "" || line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.w, line)
}

func formatProgress(state domain.ProgressState) string {
	var parts []string
	if state.Status != nil {
		parts = append(parts, "["+string(*state.Status)+"]")
	}
	if state.PlaylistIndex != nil && state.PlaylistSize != nil {
		parts = append(parts, fmt.Sprintf("(%d/%d)", *state.PlaylistIndex, *state.PlaylistSize))
	}
	if state.Filename != nil {
		parts = append(parts, *state.Filename)
	}
	if state.Percent != nil {
		parts = append(parts, *state.Percent)
		if state.Filesize != nil && *state.Filesize != "" {
			parts = append(parts, "of", *state.Filesize)
		}
		if state.Speed != nil && *state.Speed != "" {
			parts = append(parts, "at", *state.Speed)
		}
		if state.ETA != nil && *state.ETA != "" {
			parts = append(parts, "ETA", *state.ETA)
		}
	}
	return strings.Join(parts, " ")
}

var runFlags optionFlags

var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Download a URL in the foreground without the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		opts := config.Options
		if err := runFlags.apply(cmd, &opts); err != nil {
			return err
		}

		log, err := logger.New(logger.Config{
			Level:      config.Logging.Level,
			Format:     "console",
			OutputPath: "stderr",
		})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		out := cmd.OutOrStdout()
		supervisor := infrastructure.NewSupervisor(
			config.Downloader.Binary,
			&writerToolLogger{w: cmd.ErrOrStderr()},
			log,
		)
		printer := &progressPrinter{w: out}
		supervisor.SetObserver(printer.Print)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := supervisor.Download(ctx, args[0], opts)
		if err != nil {
			return err
		}

		if result == domain.ResultOK && opts.ClearDashFiles && infrastructure.IsDashMux(opts) {
			supervisor.ClearDashFiles()
		}

		fmt.Fprintf(out, "Result: %s\n", result)
		for _, f := range supervisor.Files() {
			fmt.Fprintf(out, "  %s\n", f)
		}

		if code := exitCodeForResult(result); code != 0 {
			return &exitError{code: code, result: result}
		}
		return nil
	},
}

var argsFlags optionFlags

var argsCmd = &cobra.Command{
	Use:   "args [url]",
	Short: "Print the downloader command line for a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		opts := config.Options
		if err := argsFlags.apply(cmd, &opts); err != nil {
			return err
		}

		argv, err := infrastructure.BuildArgs(opts)
		if err != nil {
			return err
		}
		argv = append(argv, args[0])

		fmt.Fprintln(cmd.OutOrStdout(), infrastructure.FormatCommandLine(config.Downloader.Binary, argv...))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetString("save"); save != "" {
			if err := app.SaveConfig(config, save); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", save)
			return nil
		}

		showSecrets, _ := cmd.Flags().GetBool("show-secrets")
		if !showSecrets {
			maskSecrets(config)
		}

		data, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// maskSecrets hides configured passwords
func maskSecrets(config *domain.Config) {
	if config.Options.Password != "" {
		config.Options.Password = secretMask
	}
	if config.Options.VideoPassword != "" {
		config.Options.VideoPassword = secretMask
	}
}

func init() {
	runFlags.bind(runCmd)
	argsFlags.bind(argsCmd)

	configCmd.Flags().String("save", "", "Write the effective configuration to this file")
	configCmd.Flags().Bool("show-secrets", false, "Print passwords in clear text")
}
