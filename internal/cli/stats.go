package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/replywatch/replywatch/internal/adapters/turso"
	"github.com/replywatch/replywatch/internal/detailedstats"
	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/infrastructure/config"
	"github.com/replywatch/replywatch/internal/infrastructure/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a one-shot detailed-statistics report",
	Long: `Compute the detailed-statistics report for a date range and print it
as a table.

Examples:
  replywatch stats --from 2025-06-01 --to 2025-07-01
  replywatch stats --from 2025-06-01 --to 2025-07-01 --version v2 --version v3
  replywatch stats --from 2025-06-01 --to 2025-07-01 --date-field human_reply
  replywatch stats --from 2025-06-01 --to 2025-07-01 --merge-multi`,
	RunE: runStatsReport,
}

// Flags
var (
	statsFrom       string
	statsTo         string
	statsDateField  string
	statsVersions   []string
	statsCategories []string
	statsAgents     []string
	statsThreadIDs  []string
	statsMergeMulti bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Range start, YYYY-MM-DD or RFC3339 (required)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Range end, exclusive (required)")
	statsCmd.Flags().StringVar(&statsDateField, "date-field", "created", "Date field: created or human_reply")
	statsCmd.Flags().StringArrayVar(&statsVersions, "version", nil, "Filter by prompt version (repeatable)")
	statsCmd.Flags().StringArrayVar(&statsCategories, "category", nil, "Filter by category (repeatable)")
	statsCmd.Flags().StringArrayVar(&statsAgents, "agent", nil, "Filter by agent ID (repeatable)")
	statsCmd.Flags().StringArrayVar(&statsThreadIDs, "thread-id", nil, "Restrict to specific threads (repeatable)")
	statsCmd.Flags().BoolVar(&statsMergeMulti, "merge-multi", false, "Merge multi-category records into one bucket")

	statsCmd.MarkFlagRequired("from")
	statsCmd.MarkFlagRequired("to")
}

func runStatsReport(cmd *cobra.Command, args []string) error {
	filter, err := statsFilter()
	if err != nil {
		return err
	}

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log := newStdLogger(true)
	store := turso.NewRecordStore(db.DB, cfg.Pipeline.ServiceAgentID)
	svc := detailedstats.NewService(store, log, detailedstats.Options{
		Timeout:          cfg.Pipeline.Timeout,
		DialogBatchPause: cfg.Pipeline.DialogBatchPause,
	})

	result, err := svc.DetailedStats(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to compute report: %w", err)
	}

	printReport(result)
	return nil
}

func statsFilter() (detailedstats.Filter, error) {
	var f detailedstats.Filter

	from, err := parseDateFlag(statsFrom)
	if err != nil {
		return f, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseDateFlag(statsTo)
	if err != nil {
		return f, fmt.Errorf("invalid --to: %w", err)
	}

	switch statsDateField {
	case "created":
		f.DateField = detailedstats.DateFieldCreated
	case "human_reply":
		f.DateField = detailedstats.DateFieldHumanReply
	default:
		return f, fmt.Errorf("invalid --date-field %q: want created or human_reply", statsDateField)
	}

	f.From = from
	f.To = to
	f.Versions = statsVersions
	f.Categories = statsCategories
	f.Agents = statsAgents
	f.ThreadIDs = statsThreadIDs
	f.MergeMultiCategories = statsMergeMulti
	return f, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func printReport(result *detailedstats.Result) {
	fmt.Println()
	fmt.Printf("  Detailed statistics (%d records)\n", result.TotalCount)
	fmt.Println()

	if len(result.Data) == 0 {
		fmt.Println("  No records in range.")
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tVERSION\tWEEK\tTOTAL\tREVIEWED\tERRORS\tQUALITY\tAPPROVED\tNO REPLY\t2ND REQ")
	for _, row := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			row.Category,
			row.Version,
			weekCell(row),
			row.TotalRecords,
			row.ReviewedRecords,
			row.AIErrors,
			row.AIQuality,
			row.AIApprovedCount,
			row.NotResponded,
			row.SecondRequest,
		)
	}
	w.Flush()
	fmt.Println()
}

func weekCell(row domain.DetailedStatsRow) string {
	if row.Dates == nil {
		return "all weeks"
	}
	return *row.Dates
}
