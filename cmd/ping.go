package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:          "ping",
		Short:        "Check whether the queue server is accepting connections",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.client().CheckConnection() {
				fmt.Println("ok")
				return nil
			}
			return fmt.Errorf("queue server at %s is not reachable", flags.address)
		},
	}
	flags.applyFlags(cmd.Flags())
	return cmd
}
