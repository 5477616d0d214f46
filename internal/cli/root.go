// Package cli implements the x-to-dayone CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rcliao/x-to-dayone/internal/store"
)

var (
	dbPath    string
	debugFlag bool
)

// RootCmd is the top-level command. Run without a subcommand it converts an
// archive.
var RootCmd = &cobra.Command{
	Use:   "x-to-dayone",
	Short: "Convert a Twitter/X archive to a DayOne journal",
	Long: `Convert a Twitter/X data export into a DayOne import zip.

The archive directory must contain:
  - data/tweets.js
  - data/tweets_media/ (for photos and videos)

Examples:
  x-to-dayone -i ~/Downloads/twitter-archive
  x-to-dayone -i ./twitter-2024 -o my-journal.zip`,
	Args: cobra.NoArgs,
	Run:  runConvert,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "History database path (default: $X_TO_DAYONE_DB or ~/.x-to-dayone/history.db)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show detailed progress and error messages")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("X_TO_DAYONE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".x-to-dayone", "history.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !debugFlag, FullTimestamp: true})
	if debugFlag {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
