package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/cli"
	"github.com/Veraticus/pay-the-piper/internal/engine"
	"github.com/spf13/cobra"
)

func analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show bill spending analytics",
		Long:  `Summarizes pending and overdue totals, this month's payments, and spend by category.`,
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
			payments, err := store.GetPayments(ctx)
			if err != nil {
				return fmt.Errorf("failed to list payments: %w", err)
			}

			summary := engine.Analytics(bills, payments, time.Now())

			fmt.Println(cli.TitleStyle.Render("📊 Bill Analytics"))
			fmt.Printf("  Pending:          %s\n", cli.WarningStyle.Render(summary.TotalPending.StringFixed(2)))
			fmt.Printf("  Overdue:          %s\n", cli.ErrorStyle.Render(summary.TotalOverdue.StringFixed(2)))
			fmt.Printf("  Paid this month:  %s\n", cli.SuccessStyle.Render(summary.TotalPaidThisMonth.StringFixed(2)))
			fmt.Printf("  Average per bill: %s\n", summary.AverageMonthlyBills.StringFixed(2))

			if len(summary.CategoryBreakdown) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("By category"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Category\tBills\tAmount")
			for _, c := range summary.CategoryBreakdown {
				fmt.Fprintf(w, "%s\t%d\t%s\n", c.Category, c.Count, c.Amount.StringFixed(2))
			}
			return w.Flush()
		},
	}
}
