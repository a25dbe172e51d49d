package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/marketplace"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Marketplace user management",
	}
	cmd.AddCommand(newUserCreateCommand())
	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var (
		marketplaceURL string
		name           string
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a marketplace user and print its credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := marketplace.NewClient(marketplace.Config{
				BaseURL: marketplaceURL,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}

			creds, err := client.CreateUser(cmd.Context(), name)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(creds, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&marketplaceURL, "marketplace", "", "Marketplace API base URL")
	cmd.Flags().StringVar(&name, "name", "", "Display name for the new user")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	_ = cmd.MarkFlagRequired("marketplace")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
