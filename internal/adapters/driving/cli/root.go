// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/partikollen/partikollen/internal/config"
	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/core/ports/driving"
	"github.com/partikollen/partikollen/internal/core/services"
	"github.com/partikollen/partikollen/internal/extract"
	"github.com/partikollen/partikollen/internal/logger"
	"github.com/partikollen/partikollen/internal/riksdagen"
	filestore "github.com/partikollen/partikollen/internal/storage/file"
	"github.com/partikollen/partikollen/internal/storage/sqlite"
)

var version = "dev"

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
	flagDataDir string
)

// Services wired by setup. Commands nil-check these so a partially
// wired process fails with a clear message instead of a panic.
var (
	cfg             *config.Config
	store           driven.DocumentStore
	ingestService   driving.Ingestor
	documentService driving.DocumentReader
	searchService   driving.Searcher
)

var rootCmd = &cobra.Command{
	Use:   "partikollen",
	Short: "Build and explore a corpus of Swedish parliamentary documents",
	Long: `Partikollen ingests debates, motions, propositions and committee
decisions from the Riksdagen open data API into a local corpus, and
lets you search, read and summarise them.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.partikollen/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "override the data directory")
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// setup loads configuration and wires the services. The version command
// runs without any of that.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err = openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	client := riksdagen.NewClient(riksdagen.Config{
		BaseURL:           cfg.API.BaseURL,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})
	resolver := services.NewResolver(client, extract.New())

	ingestService = services.NewIngestor(client, resolver, store)
	documentService = services.NewDocumentService(store)
	searchService = services.NewSearchService(store)
	return nil
}

// teardown flushes and closes the store.
func teardown(*cobra.Command, []string) error {
	if store == nil {
		return nil
	}
	return store.Close()
}

// openStore selects the persistence backend.
func openStore(cfg *config.Config) (driven.DocumentStore, error) {
	if cfg.Storage == "file" {
		return filestore.NewStore(cfg.DataDir)
	}
	return sqlite.NewStore(cfg.DataDir)
}

// parseCategories maps category flag values to domain categories.
func parseCategories(names []string) ([]domain.Category, error) {
	cats := make([]domain.Category, 0, len(names))
	for _, name := range names {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// parseDate parses a YYYY-MM-DD flag value. Empty means unset.
func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", flag, value)
	}
	return &t, nil
}
