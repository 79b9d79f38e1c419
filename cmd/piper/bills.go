package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/cli"
	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func billsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Manage bills",
		Long:  `Create, list, inspect, pay, and delete bills.`,
	}

	cmd.AddCommand(billsAddCmd())
	cmd.AddCommand(billsListCmd())
	cmd.AddCommand(billsShowCmd())
	cmd.AddCommand(billsPayCmd())
	cmd.AddCommand(billsDeleteCmd())

	return cmd
}

func billsAddCmd() *cobra.Command {
	var (
		amount       string
		category     string
		frequency    string
		due          string
		reminderDays int
		description  string
		notes        string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			proc, store, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			dueDate, err := time.ParseInLocation("2006-01-02", due, time.Local)
			if err != nil {
				return fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", due, err)
			}

			cat, err := resolveCategory(ctx, store, category)
			if err != nil {
				return err
			}

			freq := model.Frequency(frequency)
			bill := &model.Bill{
				Title:        args[0],
				Description:  description,
				Notes:        notes,
				Amount:       amt,
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				Frequency:    freq,
				DueDate:      dueDate,
				ReminderDays: reminderDays,
				IsRecurring:  freq != model.FrequencyOneTime,
			}

			if err := proc.CreateBill(ctx, bill); err != nil {
				return common.NewUserError("failed to create bill", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added bill %q (%s, due %s)",
				bill.Title, bill.Amount, bill.NextDueDate.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "bill amount (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "other", "category name or id")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "monthly", "frequency (weekly, monthly, yearly, one-time)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "first due date, YYYY-MM-DD (required)")
	cmd.Flags().IntVarP(&reminderDays, "remind", "r", 3, "days before due date to start reminding")
	cmd.Flags().StringVar(&description, "description", "", "bill description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func billsListCmd() *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills with current statuses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bills, err := store.GetBills(ctx)
			if err != nil {
				return fmt.Errorf("failed to list bills: %w", err)
			}

			if statusFilter != "" {
				filtered := bills[:0]
				for _, b := range bills {
					if string(b.Status) == statusFilter {
						filtered = append(filtered, b)
					}
				}
				bills = filtered
			}

			if len(bills) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No bills found."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("📋 Bills"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID")+"\t"+
				cli.TableHeaderStyle.Render("Title")+"\t"+
				cli.TableHeaderStyle.Render("Amount")+"\t"+
				cli.TableHeaderStyle.Render("Due")+"\t"+
				cli.TableHeaderStyle.Render("Status")+"\t"+
				cli.TableHeaderStyle.Render("Category"))

			for _, b := range bills {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(b.ID),
					b.Title,
					b.Amount.StringFixed(2),
					b.NextDueDate.Format("2006-01-02"),
					cli.StatusStyle(string(b.Status)).Render(string(b.Status)),
					b.CategoryName)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "filter by status (upcoming, pending, overdue, paid)")

	return cmd
}

func billsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <bill-id>",
		Short: "Show a bill and its payment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bill, err := findBill(ctx, store, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(bill.Title))
			fmt.Printf("  ID:        %s\n", bill.ID)
			fmt.Printf("  Amount:    %s\n", bill.Amount.StringFixed(2))
			fmt.Printf("  Frequency: %s\n", bill.Frequency)
			fmt.Printf("  Next due:  %s\n", bill.NextDueDate.Format("2006-01-02"))
			fmt.Printf("  Status:    %s\n", cli.StatusStyle(string(bill.Status)).Render(string(bill.Status)))
			fmt.Printf("  Category:  %s\n", bill.CategoryName)
			if bill.LastPaidDate != nil {
				fmt.Printf("  Last paid: %s\n", bill.LastPaidDate.Format("2006-01-02"))
			}
			if bill.Description != "" {
				fmt.Printf("  Description: %s\n", bill.Description)
			}
			if bill.Notes != "" {
				fmt.Printf("  Notes:     %s\n", bill.Notes)
			}

			payments, err := store.GetPaymentsForBill(ctx, bill.ID)
			if err != nil {
				return fmt.Errorf("failed to load payments: %w", err)
			}
			if len(payments) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Payment history"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Date\tAmount\tLate\tNotes")
			for _, p := range payments {
				late := ""
				if p.IsLate {
					late = cli.WarningStyle.Render("late")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					p.PaidDate.Format("2006-01-02"), p.Amount.StringFixed(2), late, p.Notes)
			}
			return w.Flush()
		},
	}
}

func billsPayCmd() *cobra.Command {
	var (
		walletID string
		amount   string
		notes    string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "pay <bill-id>",
		Short: "Pay a bill from a wallet",
		Long: `Records a payment for the bill, advances recurring due dates, and
writes the matching expense transaction to the wallet ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			proc, store, l, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			bill, err := findBill(ctx, store, args[0])
			if err != nil {
				return err
			}

			wallet, err := resolveWallet(ctx, l, walletID)
			if err != nil {
				return err
			}

			var override *decimal.Decimal
			paid := bill.Amount
			if amount != "" {
				amt, parseErr := decimal.NewFromString(amount)
				if parseErr != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, parseErr)
				}
				override = &amt
				paid = amt
			}

			ok, err := proc.SufficientFunds(ctx, wallet.ID, paid)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"Wallet %q has insufficient funds (%s available, %s needed)",
					wallet.Name, wallet.Balance.StringFixed(2), paid.StringFixed(2))))
				if !force {
					return fmt.Errorf("aborting; rerun with --force to pay anyway")
				}
			}

			payment, err := proc.MarkPaid(ctx, bill.ID, wallet.ID, override, notes)
			if err != nil {
				if payment != nil {
					// Payment committed but the ledger write did not confirm.
					fmt.Println(cli.FormatWarning(
						"Payment recorded, but the wallet transaction could not be confirmed."))
				}
				return common.NewUserError(fmt.Sprintf("failed to pay %q", bill.Title), err)
			}

			msg := fmt.Sprintf("Paid %q (%s from %s)", bill.Title, payment.Amount.StringFixed(2), wallet.Name)
			if payment.IsLate {
				msg += " " + cli.WarningStyle.Render("(late)")
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&walletID, "wallet", "w", "", "wallet name or id (required)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "override amount (default: the bill's amount)")
	cmd.Flags().StringVar(&notes, "notes", "", "payment notes")
	cmd.Flags().BoolVar(&force, "force", false, "pay even with insufficient funds")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

func billsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <bill-id>",
		Short: "Delete a bill and its payment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bill, err := findBill(ctx, store, args[0])
			if err != nil {
				return err
			}

			if !yes {
				fmt.Printf("Delete bill %q and all its payments? [y/N]: ", bill.Title)
				var answer string
				_, _ = fmt.Scanln(&answer)
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			if err := store.DeleteBill(ctx, bill.ID); err != nil {
				return common.NewUserError(fmt.Sprintf("failed to delete %q", bill.Title), err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted bill %q", bill.Title)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
