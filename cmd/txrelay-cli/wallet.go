package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmacdonaldsmith/txrelay-go/internal/wallet"
)

func newWalletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet utilities",
	}
	cmd.AddCommand(newWalletNewCommand())
	cmd.AddCommand(newWalletFundCommand())
	return cmd
}

func newWalletNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Generate a new wallet seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := wallet.NewSeed()
			if err != nil {
				return err
			}
			fmt.Println(seed)
			return nil
		},
	}
}

func newWalletFundCommand() *cobra.Command {
	var (
		faucetURL string
		address   string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Request faucet funds for an address and wait for confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			faucet, err := wallet.NewFaucet(faucetURL)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			balance, err := faucet.Fund(ctx, address)
			if err != nil {
				return err
			}
			fmt.Printf("funded: balance %d\n", balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&faucetURL, "faucet", "", "Faucet base URL")
	cmd.Flags().StringVar(&address, "address", "", "Address to fund")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for confirmation")
	_ = cmd.MarkFlagRequired("faucet")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
