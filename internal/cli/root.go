package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "replywatch",
	Short: "Detailed statistics over AI and human reply comparisons",
	Long: `replywatch aggregates AI-vs-human reply comparison records from the
hosted store into the detailed-statistics report consumed by the dashboard.

Run the API server with "replywatch serve", or print a one-shot report with
"replywatch stats".`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
