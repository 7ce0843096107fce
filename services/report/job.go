package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/services/cron"
)

// Archiver stores a finished report somewhere durable
type Archiver interface {
	UploadFile(ctx context.Context, key string, data io.ReadSeeker, contentType string) (string, error)
}

// Config describes how the report process is invoked
type Config struct {
	// Command is split on whitespace; the first field is the executable.
	Command   string
	OutputDir string
	Timeout   time.Duration
}

// Job runs the external report process. It is dispatched by the cron
// manager, either on schedule or from POST /reports/courses.
type Job struct {
	cfg      Config
	archiver Archiver
	log      zerolog.Logger
}

// NewJob creates a report job. archiver may be nil.
func NewJob(cfg Config, archiver Archiver, log zerolog.Logger) *Job {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Job{
		cfg:      cfg,
		archiver: archiver,
		log:      log.With().Str("job", "course_report").Logger(),
	}
}

func (j *Job) Name() string { return "course_report" }

// Run invokes the process once. A process that cannot be started or is
// killed by the timeout yields a retryable error; a non-zero exit is
// logged with its stderr and reported as a permanent failure.
func (j *Job) Run(ctx context.Context) (string, error) {
	args := strings.Fields(j.cfg.Command)
	if len(args) == 0 {
		return "", cron.Permanent(errors.New("report command is not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "REPORT_OUTPUT_DIR="+j.cfg.OutputDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	started := time.Now()
	err := cmd.Run()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			j.log.Error().
				Int("exit_code", exitErr.ExitCode()).
				Str("stderr", strings.TrimSpace(stderr.String())).
				Msg("course report generation failed")
			return "", cron.Permanent(fmt.Errorf("report process exited with code %d", exitErr.ExitCode()))
		}

		j.log.Error().Err(err).Str("stderr", strings.TrimSpace(stderr.String())).Msg("course report process could not complete")
		return "", fmt.Errorf("failed to run report process: %w", err)
	}

	j.log.Info().Str("output", strings.TrimSpace(stdout.String())).Msg("course report generated successfully")

	path, err := newestReport(j.cfg.OutputDir, started)
	if err != nil || path == "" {
		return "Report generated", nil
	}

	message := "Report generated: " + filepath.Base(path)
	if url := j.archive(ctx, path); url != "" {
		message += " (archived to " + url + ")"
	}
	return message, nil
}

// archive uploads the report; failures are logged but do not fail the run
func (j *Job) archive(ctx context.Context, path string) string {
	if j.archiver == nil {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		j.log.Warn().Err(err).Str("file", path).Msg("failed to open report for archiving")
		return ""
	}
	defer f.Close()

	url, err := j.archiver.UploadFile(ctx, "reports/"+filepath.Base(path), f, "application/json")
	if err != nil {
		j.log.Warn().Err(err).Str("file", path).Msg("failed to archive report")
		return ""
	}
	return url
}

// newestReport returns the most recent report file modified at or after since
func newestReport(dir string, since time.Time) (string, error) {
	if dir == "" {
		return "", nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, FilePrefix+"*.json"))
	if err != nil {
		return "", err
	}

	var (
		newest  string
		newestT time.Time
	)
	cutoff := since.Truncate(time.Second)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			continue
		}
		if newest == "" || info.ModTime().After(newestT) {
			newest, newestT = m, info.ModTime()
		}
	}
	return newest, nil
}
