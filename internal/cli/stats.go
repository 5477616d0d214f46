package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show conversion history statistics",
		Run:   runStats,
	}

	cmd.Flags().Bool("human", false, "Print sizes in human readable form")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	human, _ := cmd.Flags().GetBool("human")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if human {
		fmt.Printf("runs: %d (%d entries, %d warnings)\n", stats.TotalRuns, stats.TotalEntries, stats.TotalWarnings)
		fmt.Printf("media: %d unique files, %s staged\n", stats.UniqueMedia, humanize.Bytes(uint64(stats.StagedBytes)))
		fmt.Printf("db: %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
		return
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
