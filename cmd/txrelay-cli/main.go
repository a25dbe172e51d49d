package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	cliName    = "txrelay-cli"
	cliVersion = "0.1.0"
)

var (
	// Global flags
	feedEndpoint string
	tagPrefix    string
	nodeURL      string
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   cliName,
		Short: "Transaction feed relay command line interface",
		Long: `txrelay-cli is a command line interface for the transaction feed relay.
It provides commands for watching marketplace events on the feed, driving
synthetic traffic, wallet housekeeping and marketplace user registration.`,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&feedEndpoint, "endpoint", "tcp://localhost:5556", "Feed endpoint")
	rootCmd.PersistentFlags().StringVar(&tagPrefix, "prefix", "", "Marketplace tag prefix (trytes)")
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node-url", "http://localhost:14265", "Node HTTP API URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	// Add subcommands
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newSimulateCommand())
	rootCmd.AddCommand(newWalletCommand())
	rootCmd.AddCommand(newUserCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", cliName, cliVersion)
		},
	}
}
