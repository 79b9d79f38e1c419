package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Veraticus/pay-the-piper/internal/cli"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage bill categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bill categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetBillCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("🏷️  Categories"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tName\tDescription")
			for _, c := range categories {
				name := c.Name
				if c.Icon != "" {
					name = c.Icon + " " + name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, name, c.Description)
			}
			return w.Flush()
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var (
		icon        string
		color       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category := &model.BillCategory{
				Name:        args[0],
				Icon:        icon,
				Color:       color,
				Description: description,
			}
			if err := store.CreateBillCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added category %q (%s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")
	cmd.Flags().StringVar(&color, "color", "", "hex color")
	cmd.Flags().StringVar(&description, "description", "", "category description")

	return cmd
}
