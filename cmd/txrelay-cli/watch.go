package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rmacdonaldsmith/txrelay-go/internal/logging"
	"github.com/rmacdonaldsmith/txrelay-go/internal/payload"
	"github.com/rmacdonaldsmith/txrelay-go/internal/relay"
	"github.com/rmacdonaldsmith/txrelay-go/internal/zmqfeed"
	relaypkg "github.com/rmacdonaldsmith/txrelay-go/pkg/relay"
)

// watchEvent is the line format printed for each matched event.
type watchEvent struct {
	Topic     string          `json:"topic"`
	Kind      string          `json:"kind"`
	Tag       string          `json:"tag"`
	Hash      string          `json:"hash"`
	Address   string          `json:"address"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func newWatchCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Subscribe to the feed and print matched events as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Configure(logging.Config{Level: logLevel, Service: cliName})

			config := relay.NewConfig(feedEndpoint, tagPrefix)
			config.NodeURL = nodeURL
			if err := config.Validate(); err != nil {
				return err
			}

			extractor, err := payload.NewHTTPExtractor(config.NodeURL, config.ExtractTimeout)
			if err != nil {
				return err
			}

			r, err := relay.NewFeedRelay(config, zmqfeed.New(), extractor)
			if err != nil {
				return err
			}
			r.WithLogger(logging.Logger())
			defer r.Close()

			done := make(chan struct{})
			seen := 0 // only touched from the relay's receive loop
			_, err = r.Subscribe("tx", func(topic string, event relaypkg.Event) {
				line, jerr := json.Marshal(watchEvent{
					Topic:     topic,
					Kind:      event.Kind.String(),
					Tag:       event.Tag,
					Hash:      event.Hash,
					Address:   event.Address,
					Timestamp: event.Timestamp,
					Data:      event.Data,
				})
				if jerr != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", jerr)
					return
				}
				fmt.Println(string(line))

				seen++
				if count > 0 && seen == count {
					close(done)
				}
			})
			if err != nil {
				return fmt.Errorf("subscribe failed: %w", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-done:
			case <-sigChan:
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 = run until interrupted)")
	return cmd
}
