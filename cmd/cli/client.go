package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/yourusername/ydl-go/internal/domain"
	"github.com/yourusername/ydl-go/pkg/logger"
)

const requestTimeout = 10 * time.Second

// apiError is an error response from the server
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.message, e.status)
}

// apiRequest sends body as JSON and decodes the response into out when out
// is not nil
func apiRequest(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &apiError{status: resp.StatusCode, message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// progressColumn summarizes a job's progress for table output
func progressColumn(job *domain.Job) string {
	if job.Progress == nil || job.Progress.Percent == nil {
		return "-"
	}
	return *job.Progress.Percent
}

func printJobs(w io.Writer, jobs []*domain.Job) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tCREATED\tURL")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			job.ID,
			job.Status,
			progressColumn(job),
			job.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(job.URL, 60))
	}
	tw.Flush()
}

func printJob(w io.Writer, job *domain.Job) {
	fmt.Fprintf(w, "ID:        %s\n", job.ID)
	fmt.Fprintf(w, "URL:       %s\n", job.URL)
	fmt.Fprintf(w, "Status:    %s\n", job.Status)
	if job.Result != "" {
		fmt.Fprintf(w, "Result:    %s\n", job.Result)
	}
	if job.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", job.ErrorMessage)
	}
	fmt.Fprintf(w, "Created:   %s\n", job.CreatedAt.Local().Format(time.RFC3339))
	if job.StartedAt != nil {
		fmt.Fprintf(w, "Started:   %s\n", job.StartedAt.Local().Format(time.RFC3339))
	}
	if job.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", job.CompletedAt.Local().Format(time.RFC3339))
	}
	if job.Progress != nil {
		if line := formatProgress(*job.Progress); line != "" {
			fmt.Fprintf(w, "Progress:  %s\n", line)
		}
	}
	if len(job.Files) > 0 {
		fmt.Fprintln(w, "Files:")
		for _, f := range job.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}

var addCmd = &cobra.Command{
	Use:   "add [url...]",
	Short: "Add URLs to the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		for _, u := range args {
			var job domain.Job
			if err := apiRequest(http.MethodPost, "/api/v1/jobs", map[string]string{"url": u}, &job); err != nil {
				return fmt.Errorf("failed to add %s: %w", u, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job added: %s (%s)\n", job.ID, job.Status)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		path := "/api/v1/jobs"
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			path += "?status=" + url.QueryEscape(status)
		}

		var jobs []*domain.Job
		if err := apiRequest(http.MethodGet, path, nil, &jobs); err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
			return nil
		}
		printJobs(cmd.OutOrStdout(), jobs)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		var job domain.Job
		if err := apiRequest(http.MethodGet, "/api/v1/jobs/"+url.PathEscape(args[0]), nil, &job); err != nil {
			return err
		}
		printJob(cmd.OutOrStdout(), &job)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [id]",
	Short: "Stop a running or queued job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		if err := apiRequest(http.MethodPost, "/api/v1/jobs/"+url.PathEscape(args[0])+"/stop", nil, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stop requested: %s\n", args[0])
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a job that is not running",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		if err := apiRequest(http.MethodDelete, "/api/v1/jobs/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Job deleted: %s\n", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show queue statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		var stats domain.JobStats
		if err := apiRequest(http.MethodGet, "/api/v1/jobs/stats", nil, &stats); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Total:     %d\n", stats.Total)
		fmt.Fprintf(w, "Queued:    %d\n", stats.Queued)
		fmt.Fprintf(w, "Running:   %d\n", stats.Running)
		fmt.Fprintf(w, "Completed: %d\n", stats.Completed)
		fmt.Fprintf(w, "Already:   %d\n", stats.Already)
		fmt.Fprintf(w, "Error:     %d\n", stats.Error)
		fmt.Fprintf(w, "Stopped:   %d\n", stats.Stopped)
		fmt.Fprintf(w, "Failed:    %d\n", stats.Failed)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log [id]",
	Short: "Show the downloader output recorded for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		limit, _ := cmd.Flags().GetInt("limit")
		path := fmt.Sprintf("/api/v1/jobs/%s/log?limit=%d", url.PathEscape(args[0]), limit)

		var resp struct {
			Entries []logger.LogEntry `json:"entries"`
		}
		if err := apiRequest(http.MethodGet, path, nil, &resp); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(resp.Entries) == 0 {
			fmt.Fprintln(w, "No log entries")
			return nil
		}
		for _, e := range resp.Entries {
			fmt.Fprintf(w, "%s %s\n", e.Timestamp, e.Message)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [id]",
	Short: "Stream live progress, for one job or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()

		wsURL, err := eventsURL(serverURL, args)
		if err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
		}
		defer conn.Close()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)
		go func() {
			<-interrupt
			_ = conn.Close()
		}()

		w := cmd.OutOrStdout()
		for {
			var ev domain.ProgressEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return nil
			}

			line := formatProgress(ev.State)
			if ev.Status != "" {
				line = strings.TrimSpace(line + " => " + string(ev.Status))
			}
			if line == "" {
				continue
			}
			if len(args) == 0 {
				line = ev.JobID + " " + line
			}
			fmt.Fprintln(w, line)

			if len(args) == 1 && ev.Status != "" {
				return nil
			}
		}
	},
}

// eventsURL turns the server URL into the websocket URL of the event stream
func eventsURL(server string, args []string) (string, error) {
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/api/v1/jobs/events"
	if len(args) == 1 {
		u.RawQuery = url.Values{"job": {args[0]}}.Encode()
	}
	return u.String(), nil
}

func init() {
	listCmd.Flags().String("status", "", "Filter by status (queued, running, completed, already, error, stopped, failed)")
	logCmd.Flags().Int("limit", 200, "Maximum number of entries")
}
