package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/spf13/cobra"

	"github.com/slivka-go/taskqueue/internal/logging"
	"github.com/slivka-go/taskqueue/queue"
)

// serveConfig is the process configuration for the queue server,
// loaded from flags and environment variables by ardanlabs/conf.
type serveConfig struct {
	Server struct {
		Address string `conf:"env:SLIVQUEUE_ADDRESS,default:127.0.0.1:8877"`
		Workers int    `conf:"env:SLIVQUEUE_WORKERS,default:4"`
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the task queue server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg serveConfig
			help, err := conf.Parse("", &cfg)
			if err != nil {
				if errors.Is(err, conf.ErrHelpWanted) {
					fmt.Println(help)
					return nil
				}
				return fmt.Errorf("parsing config: %w", err)
			}

			log, err := logging.New("slivqueue-server")
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer log.Sync()

			tq := queue.New(cfg.Server.Workers, log)
			if err := tq.Start(cfg.Server.Address); err != nil {
				return fmt.Errorf("starting server: %w", err)
			}
			log.Sugar().Infow("serving", "address", tq.Server.Addr())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Sugar().Info("termination signal received, shutting down")
			tq.Shutdown()
			return nil
		},
	}
	return cmd
}
