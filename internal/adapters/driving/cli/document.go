package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partikollen/partikollen/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List ingested documents in a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [category] [doc-id]",
	Short: "Print one document with its full body text",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	cat, err := domain.ParseCategory(args[0])
	if err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), cat)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No %ss ingested yet.\n", cat)
		return nil
	}

	for i := range docs {
		rec := &docs[i]
		date := "          "
		if rec.Published != nil {
			date = rec.Published.Format("2006-01-02")
		}
		cmd.Printf("  %s  %-4s %-22s %s\n", date, rec.Party, rec.ID, rec.Title)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	cat, err := domain.ParseCategory(args[0])
	if err != nil {
		return err
	}

	rec, err := documentService.Get(cmd.Context(), cat, args[1])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no %s with id %s", cat, args[1])
		}
		return fmt.Errorf("failed to load document: %w", err)
	}

	cmd.Printf("ID:       %s\n", rec.ID)
	cmd.Printf("Category: %s\n", rec.Category)
	cmd.Printf("Title:    %s\n", rec.Title)
	if rec.Subtitle != "" {
		cmd.Printf("Subtitle: %s\n", rec.Subtitle)
	}
	if rec.Published != nil {
		cmd.Printf("Date:     %s\n", rec.Published.Format("2006-01-02"))
	}
	cmd.Printf("Party:    %s\n", rec.Party)
	if rec.Speaker != "" {
		cmd.Printf("Speaker:  %s\n", rec.Speaker)
	}
	if rec.Decision != "" {
		cmd.Printf("Decision: %s\n", rec.Decision)
	}
	cmd.Printf("Source:   %s\n", rec.SourceKind)
	cmd.Println()
	cmd.Println(rec.BodyText)
	return nil
}
