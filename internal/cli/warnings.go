package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "warnings [run-id]",
		Short: "List media that a run could not find",
		Args:  cobra.ExactArgs(1),
		Run:   runWarnings,
	}

	RootCmd.AddCommand(cmd)
}

func runWarnings(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if _, err := s.GetRun(cmd.Context(), args[0]); err != nil {
		exitErr("warnings", err)
	}

	ws, err := s.Warnings(cmd.Context(), args[0])
	if err != nil {
		exitErr("warnings", err)
	}

	if len(ws) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(ws, "", "  ")
	fmt.Println(string(b))
}
