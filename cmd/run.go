package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/scraper"
)

func newRunCmd() *cobra.Command {
	var (
		maxURLs int
		csvDir  string
		only    []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the full discover, scrape, and extract pipeline",
		Long: `Runs the whole pipeline for every configured site: discovers product
URLs up to the budget, scrapes each page into a text file, extracts
structured attributes with the configured LLM, and writes one combined CSV.
Use --site to restrict the run to specific sites.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}

			siteNames := rt.cfg.SiteNames()
			if len(only) > 0 {
				siteNames = only
			}

			// Build the extraction client up front so a missing API key fails
			// before any crawling happens.
			ext, err := rt.newExtractor()
			if err != nil {
				return err
			}

			fetcher := rt.newFetcher()
			eng := rt.newCrawler(fetcher)
			s, err := rt.newScraper(fetcher)
			if err != nil {
				return fmt.Errorf("init scraper: %w", err)
			}

			var products []scraper.Product
			for _, siteName := range siteNames {
				log := rt.logger.With(zap.String("site", siteName))

				urls, err := eng.FindProductURLs(cmd.Context(), siteName, maxURLs)
				if err != nil && len(urls) == 0 {
					log.Warn("discovery failed", zap.Error(err))
					continue
				}
				log.Info("discovery finished", zap.Int("urls", len(urls)))

				scraped, err := s.ScrapeURLs(cmd.Context(), urls, siteName)
				if err != nil {
					log.Warn("scrape stopped early", zap.Error(err))
				}
				log.Info("scrape finished", zap.Int("scraped", len(scraped)))
				products = append(products, scraped...)

				if cmd.Context().Err() != nil {
					break
				}
			}

			if len(products) == 0 {
				rt.logger.Warn("pipeline produced no products")
				return nil
			}

			records := ext.ProcessProducts(cmd.Context(), products)
			if len(records) == 0 {
				rt.logger.Warn("no records extracted")
				return nil
			}
			return writeResults(cmd, rt, csvDir, records)
		},
	}

	cmd.Flags().IntVar(&maxURLs, "max", 50, "maximum product URLs per site")
	cmd.Flags().StringVar(&csvDir, "out", ".", "directory the CSV is written to")
	cmd.Flags().StringSliceVar(&only, "site", nil, "restrict the run to these configured sites")

	return cmd
}
