package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stocktrail/stocktrail/client"
)

func newSummaryCmd() *cobra.Command {
	var period, from, to string
	var topLimit int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate activity for a time window",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.SummaryOptions{
				Period:   period,
				TopLimit: topLimit,
			}
			var err error
			if opts.From, err = parseTimeFlag(from); err != nil {
				fatal("parse --from", err)
			}
			if opts.To, err = parseTimeFlag(to); err != nil {
				fatal("parse --to", err)
			}
			summary, err := apiClient.Summary.Get(context.Background(), opts)
			if err != nil {
				fatal("get summary", err)
			}
			if flagFmt == "table" {
				headers := []string{"ITEM", "ADDED"}
				var rows [][]string
				for _, it := range summary.TopItems.MostAdded {
					rows = append(rows, []string{it.ItemName, strconv.Itoa(it.Total)})
				}
				formatTable(headers, rows)
				return
			}
			output(summary, "")
		},
	}
	cmd.Flags().StringVar(&period, "period", "this_week", "today|this_week|this_month|this_year|custom")
	cmd.Flags().StringVar(&from, "from", "", "Window start for --period custom (RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "Window end for --period custom (RFC3339)")
	cmd.Flags().IntVar(&topLimit, "top", 10, "Size of top-items rankings")
	return cmd
}
