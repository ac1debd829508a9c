package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/health", nil)
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}

			var data map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, k := range []string{"status", "version", "go_version", "uptime", "credential", "fetch_log"} {
				fmt.Fprintf(out, "%-12s %v\n", k+":", data[k])
			}
			return nil
		},
	}
}
