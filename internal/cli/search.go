package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/me/narabid/pkg/model"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		kind     string
		pageNo   int
		rows     int
		maxPages int
		noFilter bool
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search recent bid notices, award results or contracts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("kind", kind)
			if len(args) == 1 {
				q.Set("q", args[0])
			}
			if pageNo > 0 {
				q.Set("pageNo", strconv.Itoa(pageNo))
			}
			if rows > 0 {
				q.Set("numOfRows", strconv.Itoa(rows))
			}
			if maxPages > 0 {
				q.Set("maxPages", strconv.Itoa(maxPages))
			}
			if noFilter {
				q.Set("filter", "0")
			}
			if category != "" {
				q.Set("bsnsDivCd", category)
			}

			resp, err := client.Get("/api/v1/procurement", q)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, resp.Data)
			}

			var res model.SearchResult
			if err := json.Unmarshal(resp.Data, &res); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			printSearchResult(out, &res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "bid", "Record kind: bid, award, contract")
	cmd.Flags().IntVar(&pageNo, "page", 0, "First upstream page (default 1)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Rows per upstream page (server default when 0)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Max upstream pages to scan (server default when 0)")
	cmd.Flags().BoolVar(&noFilter, "no-filter", false, "Return all scanned records without keyword filtering")
	cmd.Flags().StringVar(&category, "category", "", "Award business-division code (bsnsDivCd)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON payload")
	return cmd
}

func printSearchResult(w io.Writer, res *model.SearchResult) {
	if len(res.Items) == 0 {
		fmt.Fprintf(w, "No %s records found (%s).\n", res.Kind, res.Meta.DateRange)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tORGANIZATION\tAMOUNT\tTITLE")
	fmt.Fprintln(tw, "----\t------------\t------\t-----")
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Date, it.Organization, it.Amount, it.Title)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d of %d matched, %d scanned across %d page(s), %s\n",
		res.Meta.ReturnedCount, res.Meta.TotalMatched, res.Meta.TotalScanned, res.Meta.PagesFetched, res.Meta.DateRange)
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
