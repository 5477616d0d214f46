package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rcliao/x-to-dayone/internal/convert"
	"github.com/rcliao/x-to-dayone/internal/model"
)

func init() {
	RootCmd.Flags().StringP("input", "i", "", "Path to your Twitter archive directory (required)")
	RootCmd.Flags().StringP("output", "o", "", "Output path for the DayOne zip (default: twitter_journal_YYYY-MM-DD.zip)")
	RootCmd.Flags().String("staging-dir", "", "Parent directory for temporary files (default: $X_TO_DAYONE_STAGING or the OS temp dir)")
	RootCmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	RootCmd.MarkFlagRequired("input")
}

// DefaultOutput returns the default zip name for a run on day t.
func DefaultOutput(t time.Time) string {
	return fmt.Sprintf("twitter_journal_%s.zip", t.Format("2006-01-02"))
}

func runConvert(cmd *cobra.Command, args []string) {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	stagingDir, _ := cmd.Flags().GetString("staging-dir")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if output == "" {
		output = DefaultOutput(time.Now())
	}
	if stagingDir == "" {
		stagingDir = os.Getenv("X_TO_DAYONE_STAGING")
	}

	log := newLogger()
	log.WithFields(logrus.Fields{"input": input, "output": output}).Info("converting Twitter archive to DayOne")

	res, err := convert.NewPipeline(log).Run(cmd.Context(), convert.Options{
		Input:      input,
		Output:     output,
		StagingDir: stagingDir,
	})

	if !noHistory {
		recordHistory(cmd.Context(), log, res, err)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "conversion cancelled by user")
			os.Exit(1)
		}
		if debugFlag {
			for i, e := range errorChain(err) {
				log.WithField("depth", i).Debugf("%T: %v", e, e)
			}
		}
		exitErr("convert", err)
	}

	if len(res.Warnings) > 0 {
		log.Warnf("%d media files were not found", len(res.Warnings))
	}

	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(b))
}

// recordHistory stores the run. History is best effort and never fails the
// conversion.
func recordHistory(ctx context.Context, log logrus.FieldLogger, res *convert.Result, runErr error) {
	if res == nil {
		return
	}
	run := RunFromResult(res, runErr)

	s, err := openStore()
	if err != nil {
		log.WithError(err).Warn("open history db")
		return
	}
	defer s.Close()

	// The command context may already be cancelled.
	if err := s.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		log.WithError(err).Warn("record run history")
		return
	}
	log.WithField("run_id", run.ID).Debug("recorded run history")
}

// RunFromResult maps a pipeline result to a history record.
func RunFromResult(res *convert.Result, runErr error) model.Run {
	run := model.Run{
		ID:          res.RunID,
		Input:       res.Input,
		Output:      res.Output,
		Status:      model.RunSucceeded,
		StartedAt:   res.StartedAt,
		FinishedAt:  res.FinishedAt,
		Tweets:      res.Tweets,
		Entries:     res.Entries,
		Photos:      res.Photos,
		Videos:      res.Videos,
		OutputBytes: res.OutputBytes,
		Warnings:    res.Warnings,
		Media:       res.Media,
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		run.Status = model.RunCancelled
		run.Error = runErr.Error()
	default:
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}
	return run
}

// errorChain lists err and everything it wraps, outermost first.
func errorChain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		err = errors.Unwrap(err)
	}
	return chain
}
