package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/extractor"
	"github.com/sbrennan/vapescout/internal/scraper"
	"github.com/sbrennan/vapescout/internal/store"
)

func newExtractCmd() *cobra.Command {
	var csvDir string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extracts structured attributes from scraped text files",
		Long: `Reads the text files produced by the scrape stage, extracts product
attributes from each one with the configured LLM, and writes the combined
result as a timestamped CSV. Records are also saved to Postgres when a
database DSN is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}

			products := scrapedSites(rt)
			if len(products) == 0 {
				rt.logger.Warn("no scraped sites found",
					zap.String("dir", rt.cfg.Scraper.OutputDir))
				return nil
			}

			ext, err := rt.newExtractor()
			if err != nil {
				return err
			}
			records := ext.ProcessProducts(cmd.Context(), products)
			if len(records) == 0 {
				rt.logger.Warn("no records extracted")
				return nil
			}

			return writeResults(cmd, rt, csvDir, records)
		},
	}

	cmd.Flags().StringVar(&csvDir, "out", ".", "directory the CSV is written to")

	return cmd
}

// scrapedSites returns one placeholder product per configured site whose
// output directory exists. The extractor reads the actual text files itself.
func scrapedSites(rt *runtime) []scraper.Product {
	var products []scraper.Product
	for _, name := range rt.cfg.SiteNames() {
		if _, err := os.Stat(filepath.Join(rt.cfg.Scraper.OutputDir, name)); err == nil {
			products = append(products, scraper.Product{Site: name})
		}
	}
	return products
}

func writeResults(cmd *cobra.Command, rt *runtime, csvDir string, records []extractor.Record) error {
	path, err := extractor.WriteCSV(csvDir, records, time.Now())
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	rt.logger.Info("csv written", zap.String("path", path), zap.Int("records", len(records)))

	if rt.cfg.DB.DSN == "" {
		return nil
	}
	st, err := store.Connect(cmd.Context(), rt.cfg.DB.DSN, rt.logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()
	if err := st.SaveRecords(cmd.Context(), records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	rt.logger.Info("records saved", zap.Int("records", len(records)))
	return nil
}
