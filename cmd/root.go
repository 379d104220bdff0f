package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// Execute runs the slivqueue CLI using program args and exits on failure.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slivqueue",
		Short: "Task queue server and client for dispatched job execution",
	}
	cmd.AddCommand(serveCmd(), submitCmd(), statusCmd(), resultCmd(), pingCmd())
	return cmd
}
