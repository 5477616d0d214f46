package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rcliao/x-to-dayone/internal/convert"
	"github.com/rcliao/x-to-dayone/internal/model"
)

func TestDefaultOutput(t *testing.T) {
	got := DefaultOutput(time.Date(2024, 7, 4, 15, 0, 0, 0, time.UTC))
	if got != "twitter_journal_2024-07-04.zip" {
		t.Errorf("expected twitter_journal_2024-07-04.zip, got %q", got)
	}
}

func TestRunFromResult(t *testing.T) {
	res := &convert.Result{
		RunID:    "01J0000000000000000000000",
		Input:    "in",
		Output:   "out.zip",
		Entries:  3,
		Warnings: []model.MediaWarning{{TweetID: "1", URL: "u", Message: "m"}},
	}

	run := RunFromResult(res, nil)
	if run.Status != model.RunSucceeded || run.Error != "" {
		t.Errorf("expected succeeded without error, got %q %q", run.Status, run.Error)
	}
	if run.ID != res.RunID || run.Entries != 3 || len(run.Warnings) != 1 {
		t.Errorf("fields not copied: %+v", run)
	}

	cancelled := RunFromResult(res, fmt.Errorf("interrupted: %w", context.Canceled))
	if cancelled.Status != model.RunCancelled {
		t.Errorf("expected cancelled, got %q", cancelled.Status)
	}

	failed := RunFromResult(res, errors.New("boom"))
	if failed.Status != model.RunFailed || failed.Error != "boom" {
		t.Errorf("expected failed with error, got %q %q", failed.Status, failed.Error)
	}
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("inner")
	chain := errorChain(fmt.Errorf("outer: %w", inner))
	if len(chain) != 2 || chain[1] != inner {
		t.Errorf("unexpected chain %v", chain)
	}
}

func TestGetDBPathPrecedence(t *testing.T) {
	t.Setenv("X_TO_DAYONE_DB", "/tmp/env.db")
	old := dbPath
	t.Cleanup(func() { dbPath = old })

	dbPath = ""
	if got := getDBPath(); got != "/tmp/env.db" {
		t.Errorf("expected env path, got %q", got)
	}
	dbPath = "/tmp/flag.db"
	if got := getDBPath(); got != "/tmp/flag.db" {
		t.Errorf("expected flag path, got %q", got)
	}
}
