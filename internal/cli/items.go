package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weekly-tracker/internal/domain/tracker"
)

func newItemCommand(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a week",
	}
	cmd.AddCommand(
		newItemAddCommand(rt),
		newItemRenameCommand(rt),
		newItemCategoryCommand(rt),
		newItemMoveCommand(rt),
		newItemDeleteCommand(rt),
	)
	return cmd
}

func newItemAddCommand(rt *session) *cobra.Command {
	var (
		category string
		order    int
	)

	cmd := &cobra.Command{
		Use:   "add <week-id> <name>",
		Short: "Add an item to a week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekID, err := parseID(args[0], "week")
			if err != nil {
				return err
			}

			input := tracker.CreateItemInput{Name: args[1]}
			if cmd.Flags().Changed("category") {
				input.Category = &category
			}
			if cmd.Flags().Changed("order") {
				input.OrderIndex = &order
			}

			item, err := rt.store.CreateItem(cmd.Context(), weekID, input)
			if err != nil {
				return fmt.Errorf("add item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item #%d %q to week #%d\n", item.ID, item.Name, weekID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Item category")
	cmd.Flags().IntVar(&order, "order", 0, "Position in the week (default: last)")
	return cmd
}

func newItemRenameCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item-id> <name>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			name := args[1]
			item, err := rt.store.UpdateItem(cmd.Context(), itemID, tracker.UpdateItemInput{Name: &name})
			if err != nil {
				return fmt.Errorf("rename item %d: %w", itemID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed item #%d to %q\n", item.ID, item.Name)
			return nil
		},
	}
}

func newItemCategoryCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "category <item-id> <category>",
		Short: "Set the category of an item (\"\" clears it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			category := args[1]
			item, err := rt.store.UpdateItem(cmd.Context(), itemID, tracker.UpdateItemInput{Category: &category})
			if err != nil {
				return fmt.Errorf("set category of item %d: %w", itemID, err)
			}
			if item.Category == nil || *item.Category == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared category of item #%d\n", item.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set category of item #%d to %q\n", item.ID, *item.Category)
			return nil
		},
	}
}

func newItemMoveCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "move <week-id> <item-id> <up|down|position>",
		Short: "Move an item up, down or to a 1-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			weekID, err := parseID(args[0], "week")
			if err != nil {
				return err
			}
			itemID, err := parseID(args[1], "item")
			if err != nil {
				return err
			}

			grid, found, err := rt.store.GetWeekGrid(ctx, weekID)
			if err != nil {
				return fmt.Errorf("load week %d: %w", weekID, err)
			}
			if !found {
				return fmt.Errorf("week %d: %w", weekID, tracker.ErrWeekNotFound)
			}

			from := -1
			for i, item := range grid.Items {
				if item.ID == itemID {
					from = i
					break
				}
			}
			if from < 0 {
				return fmt.Errorf("item %d in week %d: %w", itemID, weekID, tracker.ErrItemNotFound)
			}

			to, err := parseTarget(args[2], from)
			if err != nil {
				return err
			}

			updates := tracker.Reorder(grid.Items, from, to)
			if err := tracker.ApplyOrder(ctx, rt.store, updates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved item #%d (%d updated)\n", itemID, len(updates))
			return nil
		},
	}
}

// parseTarget resolves up, down or a 1-based position into a 0-based index.
func parseTarget(value string, from int) (int, error) {
	switch strings.ToLower(value) {
	case "up":
		return from - 1, nil
	case "down":
		return from + 1, nil
	}
	position, err := strconv.Atoi(value)
	if err != nil || position < 1 {
		return 0, fmt.Errorf("invalid position %q: expected up, down or a number from 1", value)
	}
	return position - 1, nil
}

func newItemDeleteCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item and its checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			if err := rt.store.DeleteItem(cmd.Context(), itemID); err != nil {
				return fmt.Errorf("delete item %d: %w", itemID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item #%d\n", itemID)
			return nil
		},
	}
}
