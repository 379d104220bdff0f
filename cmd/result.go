package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func resultCmd() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:          "result JOB_ID",
		Short:        "Get the collected output of a finished job",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}
			out, err := flags.client().GetJobOutput(jobID)
			if err != nil {
				return fmt.Errorf("getting result: %w", err)
			}
			fmt.Printf("return code: %d\n", out.ReturnCode)
			fmt.Printf("stdout:\n%s\n", out.Stdout)
			fmt.Printf("stderr:\n%s\n", out.Stderr)
			return nil
		},
	}
	flags.applyFlags(cmd.Flags())
	return cmd
}
