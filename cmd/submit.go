package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func submitCmd() *cobra.Command {
	var flags clientFlags
	var cwd string
	var envPairs []string
	cmd := &cobra.Command{
		Use:          "submit -- CMD [ARGS...]",
		Short:        "Submit a new job to the queue server",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := map[string]string{}
			for _, pair := range envPairs {
				k, v, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --env entry %q, expected KEY=VALUE", pair)
				}
				env[k] = v
			}
			jobID, err := flags.client().SubmitJob(args, cwd, env)
			if err != nil {
				return fmt.Errorf("submitting job: %w", err)
			}
			fmt.Println(jobID)
			return nil
		},
	}
	flags.applyFlags(cmd.Flags())
	cmd.Flags().StringVar(&cwd, "cwd", ".", "Working directory for the submitted command")
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, "Environment variable to set, KEY=VALUE (repeatable)")
	return cmd
}
