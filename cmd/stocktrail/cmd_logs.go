package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocktrail/stocktrail/client"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query and maintain the audit log",
	}
	cmd.AddCommand(logsQueryCmd())
	cmd.AddCommand(logsClearCmd())
	return cmd
}

func logsQueryCmd() *cobra.Command {
	var itemID, actor, kind, from, to string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List audit entries, oldest first",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.LogQueryOptions{
				ItemID: itemID,
				Actor:  actor,
				Kind:   kind,
				Limit:  limit,
				Offset: offset,
			}
			var err error
			if opts.From, err = parseTimeFlag(from); err != nil {
				fatal("parse --from", err)
			}
			if opts.To, err = parseTimeFlag(to); err != nil {
				fatal("parse --to", err)
			}
			entries, _, err := apiClient.Logs.Query(context.Background(), opts)
			if err != nil {
				fatal("query logs", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "TIME", "ACTOR", "KIND", "ITEM", "DELTA", "DETAIL"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.CreatedAt.Format(time.RFC3339),
						e.Actor,
						e.Kind,
						e.ItemName,
						strconv.Itoa(e.Delta),
						e.Detail,
					})
				}
				formatTable(headers, rows)
				return
			}
			output(entries, "")
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "Filter by item ID")
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by transaction kind")
	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (RFC3339)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func logsClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Wipe the audit log (leaves a SYSTEM event)",
		Run: func(cmd *cobra.Command, args []string) {
			if !yes && !confirm("This deletes every audit entry. Continue? [y/N] ") {
				fmt.Println("aborted")
				return
			}
			deleted, err := apiClient.Logs.Clear(context.Background())
			if err != nil {
				fatal("clear logs", err)
			}
			fmt.Printf("deleted %d entries\n", deleted)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation")
	return cmd
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
