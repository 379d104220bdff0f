package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:          "status JOB_ID",
		Short:        "Get the status of a submitted job",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}
			status, err := flags.client().GetJobStatus(jobID)
			if err != nil {
				return fmt.Errorf("getting status: %w", err)
			}
			fmt.Println(status)
			return nil
		},
	}
	flags.applyFlags(cmd.Flags())
	return cmd
}
