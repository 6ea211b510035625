package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
)

var (
	searchCategories []string
	searchParty      string
	searchFrom       string
	searchTo         string
	searchLimit      int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the ingested corpus",
	Long: `Searches titles and body text case-insensitively. Without a query
the command lists everything matching the filters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayVarP(&searchCategories, "category", "c", nil,
		"restrict to a category (debate, motion, proposition, decision); repeatable")
	searchCmd.Flags().StringVarP(&searchParty, "party", "p", "", "restrict to a party label, e.g. S or M")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest publication date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest publication date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// searchOptions builds SearchOptions from the shared filter flags.
func searchOptions() (driving.SearchOptions, error) {
	var opts driving.SearchOptions

	cats, err := parseCategories(searchCategories)
	if err != nil {
		return opts, err
	}
	from, err := parseDate("from", searchFrom)
	if err != nil {
		return opts, err
	}
	to, err := parseDate("to", searchTo)
	if err != nil {
		return opts, err
	}

	opts.Categories = cats
	opts.Party = searchParty
	opts.From = from
	opts.To = to
	opts.Limit = searchLimit
	return opts, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.Record) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.Record) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d):\n\n", len(results))
	for i := range results {
		rec := &results[i]
		cmd.Printf("  [%d] %s\n", i+1, rec.Title)
		cmd.Printf("      %s %s", rec.Category, rec.ID)
		if rec.Published != nil {
			cmd.Printf("  %s", rec.Published.Format("2006-01-02"))
		}
		if rec.Party != "" {
			cmd.Printf("  (%s)", rec.Party)
		}
		cmd.Println()
		if snippet := excerpt(rec.BodyText, 120); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
	return nil
}

// excerpt truncates text to at most n runes on a rune boundary.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
