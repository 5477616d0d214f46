package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/x-to-dayone/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversion runs",
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().String("status", "", "Filter by status: succeeded, failed, cancelled")

	RootCmd.AddCommand(cmd)

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one run with its warnings and staged media",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}
	cmd.AddCommand(showCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), store.ListParams{Status: status, Limit: limit})
	if err != nil {
		exitErr("history", err)
	}

	if len(runs) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(runs, "", "  ")
	fmt.Println(string(b))
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}

	b, _ := json.MarshalIndent(run, "", "  ")
	fmt.Println(string(b))
}
