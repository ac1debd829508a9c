package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/me/narabid/pkg/model"
	"github.com/spf13/cobra"
)

func newFetchesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fetches",
		Short: "List recent upstream calls made by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			resp, err := client.Get("/api/v1/fetches", q)
			if err != nil {
				return fmt.Errorf("list fetches: %w", err)
			}

			var data struct {
				Total   int                    `json:"total"`
				Entries []*model.FetchLogEntry `json:"entries"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(data.Entries) == 0 {
				fmt.Fprintln(out, "No upstream calls recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tKIND\tPAGE\tSTATUS\tITEMS\tMS\tERROR")
			fmt.Fprintln(tw, "-------\t----\t----\t------\t-----\t--\t-----")
			for _, e := range data.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.PageNo, e.Status, e.Items, e.DurationMs, e.Error)
			}
			tw.Flush()

			if len(data.Entries) < data.Total {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(data.Entries), data.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (max 200)")
	return cmd
}
