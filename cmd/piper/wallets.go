package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Veraticus/pay-the-piper/internal/cli"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage ledger wallets",
	}

	cmd.AddCommand(walletsListCmd())
	cmd.AddCommand(walletsAddCmd())

	return cmd
}

func walletsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallets and balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, err := initLedger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			wallets, err := l.GetWallets(ctx)
			if err != nil {
				return fmt.Errorf("failed to list wallets: %w", err)
			}

			if len(wallets) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No wallets found. Add one with: piper wallets add"))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("💰 Wallets"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tBalance")
			for _, wallet := range wallets {
				balance := wallet.Balance.StringFixed(2)
				if wallet.Balance.IsNegative() {
					balance = cli.ErrorStyle.Render(balance)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(wallet.ID), wallet.Name, balance)
			}
			return w.Flush()
		},
	}
}

func walletsAddCmd() *cobra.Command {
	var balance string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, err := initLedger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			opening, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}

			wallet := &model.Wallet{Name: args[0], Balance: opening}
			if err := l.CreateWallet(ctx, wallet); err != nil {
				return fmt.Errorf("failed to create wallet: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added wallet %q with balance %s",
				wallet.Name, wallet.Balance.StringFixed(2))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&balance, "balance", "b", "0", "opening balance")

	return cmd
}
