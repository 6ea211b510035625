package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partikollen/partikollen/internal/adapters/driven/llm/gemini"
	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/services"
)

var summariseQuery string

var summariseCmd = &cobra.Command{
	Use:   "summarise [question]",
	Short: "Ask a question over a selection of the corpus",
	Long: `Selects documents matching the filters, builds a prompt from their
text and asks the configured Gemini models in fallback order. Requires
a Gemini API key in the config file or GEMINI_API_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

func init() {
	summariseCmd.Flags().StringVarP(&summariseQuery, "query", "q", "",
		"text filter for document selection (default: the question itself)")
	summariseCmd.Flags().StringArrayVarP(&searchCategories, "category", "c", nil,
		"restrict to a category (debate, motion, proposition, decision); repeatable")
	summariseCmd.Flags().StringVarP(&searchParty, "party", "p", "", "restrict to a party label, e.g. S or M")
	summariseCmd.Flags().StringVar(&searchFrom, "from", "", "earliest publication date (YYYY-MM-DD)")
	summariseCmd.Flags().StringVar(&searchTo, "to", "", "latest publication date (YYYY-MM-DD)")
	summariseCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum documents to include (0 = default)")
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	question := args[0]
	query := summariseQuery
	if query == "" {
		query = question
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	model, err := gemini.NewModel(cmd.Context(), cfg.Gemini.APIKey)
	if err != nil {
		return err
	}
	defer model.Close()

	summariser := services.NewSummariseService(searchService, model, cfg.Gemini.Models)

	answer, err := summariser.Summarise(cmd.Context(), question, query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocuments) {
			cmd.Println("No documents matched the filters; nothing to summarise.")
			return nil
		}
		return fmt.Errorf("summarisation failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
