package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rtc/internal/api"
	"rtc/internal/config"
	"rtc/internal/domain"
	"rtc/internal/parser"
	"rtc/internal/payload"
	"rtc/internal/runenv"
	"rtc/internal/session"
	"rtc/internal/storage"
	"rtc/internal/ui"
)

// Failure output can carry whole panics; size the scanner accordingly.
const maxLineSize = 1024 * 1024

// CollectCommand handles the collect command
type CollectCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	version   string
}

// NewCollectCommand creates a new CollectCommand
func NewCollectCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, version string) *CollectCommand {
	return &CollectCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		version:   version,
	}
}

// Execute runs the command
func (cc *CollectCommand) Execute(cmd *cobra.Command, args []string) error {
	return cc.run(cmd.InOrStdin(), cmd.OutOrStdout())
}

func (cc *CollectCommand) run(in io.Reader, out io.Writer) error {
	env, ok := runenv.Detect(config.CollectorName, cc.version)
	if !ok {
		color.Yellow("Unable to detect CI environment. No analytics will be sent.")
		return echo(in, out)
	}

	sess := session.New(env)
	lineParser := parser.NewLineParser(cc.config.ParserMode())

	started := time.Now()
	var bar *ui.ProgressBar
	var passed, failed int

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(out, line)

		event, err := lineParser.ParseLine(line)
		if err != nil {
			return err
		}
		if event == nil {
			continue
		}
		sess.Apply(event)

		if event.Suite != nil && event.Suite.Kind == parser.SuiteStarted && !cc.config.Flags.NoProgress {
			bar = ui.NewProgressBar(event.Suite.TestCount)
		}
		if event.Test != nil {
			switch event.Test.Kind {
			case parser.TestOk:
				passed++
			case parser.TestFailed:
				failed++
			default:
				continue
			}
			if bar != nil {
				bar.Update(passed, failed)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if bar != nil {
		bar.Finish()
	}

	payloads := payload.Batchify(sess, cc.config.BatchSize)

	var uploadErrs int
	if !cc.config.Flags.DryRun && len(payloads) > 0 {
		if cc.config.Token == "" {
			return fmt.Errorf("missing %s environment variable", config.TokenEnvVar)
		}

		client := api.New(cc.config.Endpoint, cc.config.Token)
		for _, p := range payloads {
			if _, err := client.Submit(context.Background(), p); err != nil {
				color.Red("Upload failed: %v", err)
				uploadErrs++
			}
		}
	}

	output := buildRunOutput(sess, len(payloads), time.Since(started))
	if err := cc.storage.Save(output); err != nil {
		color.Red("Failed to save run results: %v", err)
	}

	cc.formatter.PrintRunSummary(output)
	if uploadErrs > 0 {
		color.Red("%d of %d batches failed to upload", uploadErrs, len(payloads))
	}
	return nil
}

// buildRunOutput derives the stored run summary from the session state.
func buildRunOutput(sess *session.Session, batches int, wallDuration time.Duration) *domain.RunOutput {
	var passed, failed, incomplete int
	var failures []domain.FailedTest

	for _, record := range sess.Records() {
		switch {
		case !record.Complete():
			incomplete++
		case record.Result == domain.ResultFailed:
			failed++
			failure := domain.FailedTest{
				Scope: record.Scope,
				Name:  record.Name,
			}
			if record.FailureReason != nil {
				failure.Reason = *record.FailureReason
			}
			if record.History.Duration != nil {
				failure.DurationSeconds = *record.History.Duration
			}
			failures = append(failures, failure)
		default:
			passed++
		}
	}

	// Prefer the suite's own wall-clock span when both ends were observed.
	duration := wallDuration
	if !sess.StartedAt().IsZero() && !sess.FinishedAt().IsZero() {
		duration = sess.FinishedAt().Sub(sess.StartedAt())
	}

	return &domain.RunOutput{
		Meta: domain.RunMeta{
			TotalTests:      passed + failed + incomplete,
			PassedTests:     passed,
			FailedTests:     failed,
			IncompleteTests: incomplete,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Batches:         batches,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: failures,
	}
}

// echo passes stdin through untouched when no CI environment is detected.
func echo(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		fmt.Fprintln(out, scanner.Text())
	}
	return scanner.Err()
}
