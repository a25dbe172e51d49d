package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmacdonaldsmith/txrelay-go/internal/logging"
	"github.com/rmacdonaldsmith/txrelay-go/internal/simulate"
)

func newSimulateCommand() *cobra.Command {
	var (
		listen   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Publish synthetic marketplace traffic in the feed wire format",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Configure(logging.Config{Level: logLevel, Service: cliName})

			driver, err := simulate.NewDriver(listen, tagPrefix, interval)
			if err != nil {
				return err
			}
			driver.WithLogger(logging.Logger())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return driver.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "tcp://127.0.0.1:5556", "Endpoint to publish on")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Delay between published lines")
	return cmd
}
