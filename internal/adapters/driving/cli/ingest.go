package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

var (
	ingestCategories []string
	ingestMaxPages   int
	ingestPageSize   int
	ingestRiksmote   string
	ingestFrom       string
	ingestTo         string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents from the Riksdagen API",
	Long: `Walks the paginated document listings, fetches body text for
documents not yet in the corpus and persists them. Already ingested
documents are skipped, so repeated runs only pick up what is new.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringArrayVarP(&ingestCategories, "category", "c", nil,
		"category to ingest (debate, motion, proposition, decision); repeatable, default all")
	ingestCmd.Flags().IntVar(&ingestMaxPages, "max-pages", 0,
		"maximum listing pages per category (0 = walk until caught up)")
	ingestCmd.Flags().IntVar(&ingestPageSize, "page-size", 0,
		"listing page size (0 = configured default)")
	ingestCmd.Flags().StringVar(&ingestRiksmote, "rm", "",
		"restrict to one parliamentary year, e.g. 2024/25")
	ingestCmd.Flags().StringVar(&ingestFrom, "from", "", "earliest document date (YYYY-MM-DD)")
	ingestCmd.Flags().StringVar(&ingestTo, "to", "", "latest document date (YYYY-MM-DD)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	cats, err := parseCategories(ingestCategories)
	if err != nil {
		return err
	}

	opts := driving.IngestOptions{
		Categories: cats,
		MaxPages:   ingestMaxPages,
		PageSize:   ingestPageSize,
		Riksmote:   ingestRiksmote,
		From:       ingestFrom,
		To:         ingestTo,
	}
	if opts.PageSize == 0 && cfg != nil {
		opts.PageSize = cfg.API.PageSize
	}

	cmd.Println("Ingesting documents...")
	report, runErr := ingestService.Ingest(cmd.Context(), opts)
	if report != nil {
		printReport(cmd, report)
	}
	if runErr != nil {
		return fmt.Errorf("ingestion finished with errors: %w", runErr)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.IngestionReport) {
	cmd.Println()
	for _, cat := range domain.AllCategories() {
		count, ok := report.Counts[cat]
		if !ok {
			continue
		}
		cmd.Printf("  %-13s fetched %d, new %d, skipped %d, errors %d\n",
			cat.String()+"s:", count.Fetched, count.Ingested, count.Skipped, count.Errored)
	}
	cmd.Printf("\nTotal new documents: %d\n", report.TotalIngested())

	if len(report.ErroredIDs) > 0 {
		cmd.Println("\nFailed documents:")
		for _, id := range report.ErroredIDs {
			cmd.Printf("  %s\n", id)
		}
	}
}
