package cmd

import (
	"github.com/spf13/pflag"

	"github.com/slivka-go/taskqueue/queue"
)

// clientFlags are the connection flags shared by every client-facing
// subcommand.
type clientFlags struct {
	address string
}

func (c *clientFlags) applyFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.address, "address", "127.0.0.1:8877", "Address the queue server is listening on")
}

func (c *clientFlags) client() *queue.Client {
	return queue.NewClient(c.address)
}
