package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stocktrail/stocktrail/client"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage inventory items",
	}
	cmd.AddCommand(itemCreateCmd())
	cmd.AddCommand(itemGetCmd())
	cmd.AddCommand(itemUpdateCmd())
	cmd.AddCommand(itemAdjustCmd())
	cmd.AddCommand(itemDeleteCmd())
	cmd.AddCommand(itemListCmd())
	return cmd
}

func itemCreateCmd() *cobra.Command {
	var quantity int
	var location, imageRef, itemURL, sizesJSON string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an item",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateItemRequest{
				Name:     args[0],
				Quantity: quantity,
				Location: location,
				ImageRef: imageRef,
				URL:      itemURL,
			}
			if sizesJSON != "" {
				if err := json.Unmarshal([]byte(sizesJSON), &req.Sizes); err != nil {
					fatal("parse sizes", err)
				}
			}
			item, err := apiClient.Items.Create(context.Background(), req)
			if err != nil {
				fatal("create item", err)
			}
			output(item, item.ID)
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Initial quantity")
	cmd.Flags().StringVar(&location, "location", "", "Storage location")
	cmd.Flags().StringVar(&imageRef, "image", "", "Image reference")
	cmd.Flags().StringVar(&itemURL, "link", "", "External URL")
	cmd.Flags().StringVar(&sizesJSON, "sizes", "", `Size variants as JSON (e.g. '{"S":3,"M":5}')`)
	return cmd
}

func itemGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an item by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			item, err := apiClient.Items.Get(context.Background(), args[0])
			if err != nil {
				fatal("get item", err)
			}
			output(item, item.ID)
		},
	}
}

func itemUpdateCmd() *cobra.Command {
	var name, location, imageRef, itemURL, sizesJSON string
	var quantity, expectedVersion int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateItemRequest{}
			if name != "" {
				req.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &quantity
			}
			if location != "" {
				req.Location = &location
			}
			if imageRef != "" {
				req.ImageRef = &imageRef
			}
			if itemURL != "" {
				req.URL = &itemURL
			}
			if sizesJSON != "" {
				if err := json.Unmarshal([]byte(sizesJSON), &req.Sizes); err != nil {
					fatal("parse sizes", err)
				}
			}
			if cmd.Flags().Changed("expect-version") {
				v := int64(expectedVersion)
				req.ExpectedVersion = &v
			}
			item, err := apiClient.Items.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update item", err)
			}
			output(item, item.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Total quantity")
	cmd.Flags().StringVar(&location, "location", "", "Storage location")
	cmd.Flags().StringVar(&imageRef, "image", "", "Image reference")
	cmd.Flags().StringVar(&itemURL, "link", "", "External URL")
	cmd.Flags().StringVar(&sizesJSON, "sizes", "", "Size variants as JSON")
	cmd.Flags().IntVar(&expectedVersion, "expect-version", 0, "Fail unless the item is at this version")
	return cmd
}

func itemAdjustCmd() *cobra.Command {
	var direction, size string
	cmd := &cobra.Command{
		Use:   "adjust <id> <amount>",
		Short: "Add to or deduct from an item's quantity",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				fatal("parse amount", err)
			}
			req := &client.AdjustQuantityRequest{
				Amount:    amount,
				Direction: direction,
				Size:      size,
			}
			res, err := apiClient.Items.Adjust(context.Background(), args[0], req)
			if err != nil {
				fatal("adjust quantity", err)
			}
			if res.Applied != amount {
				fmt.Fprintf(os.Stderr, "note: applied %d of requested %d (stock floor)\n", res.Applied, amount)
			}
			output(res, res.Item.ID)
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "add", "add or deduct")
	cmd.Flags().StringVar(&size, "size", "", "Size variant to adjust")
	return cmd
}

func itemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Items.Delete(context.Background(), args[0]); err != nil {
				fatal("delete item", err)
			}
			fmt.Println("deleted")
		},
	}
}

func itemListCmd() *cobra.Command {
	var nameFilter string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit must be non-negative\n")
				os.Exit(1)
			}
			if offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --offset must be non-negative\n")
				os.Exit(1)
			}
			items, _, err := apiClient.Items.List(context.Background(), nameFilter, limit, offset)
			if err != nil {
				fatal("list items", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "QUANTITY", "LOCATION"}
				var rows [][]string
				for _, it := range items {
					rows = append(rows, []string{it.ID, it.Name, strconv.Itoa(it.Quantity), it.Location})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, it := range items {
					fmt.Println(it.ID)
				}
				return
			}
			output(items, "")
		},
	}
	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter by name substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
