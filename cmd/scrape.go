package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScrapeCmd() *cobra.Command {
	var (
		maxURLs  int
		urlsFile string
	)

	cmd := &cobra.Command{
		Use:   "scrape <site>",
		Short: "Scrapes product pages into raw text files",
		Long: `Fetches product pages for a configured site and writes one text file
per page under the scraper output directory. URLs come from --urls-file
(one per line) when given, otherwise discovery runs first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}
			siteName := args[0]

			fetcher := rt.newFetcher()

			var urls []string
			if urlsFile != "" {
				urls, err = readURLList(urlsFile)
				if err != nil {
					return err
				}
			} else {
				urls, err = rt.newCrawler(fetcher).FindProductURLs(cmd.Context(), siteName, maxURLs)
				if err != nil && len(urls) == 0 {
					return fmt.Errorf("discover product urls: %w", err)
				}
			}
			if len(urls) == 0 {
				rt.logger.Warn("no product urls to scrape", zap.String("site", siteName))
				return nil
			}

			s, err := rt.newScraper(fetcher)
			if err != nil {
				return fmt.Errorf("init scraper: %w", err)
			}
			products, err := s.ScrapeURLs(cmd.Context(), urls, siteName)
			if err != nil {
				rt.logger.Warn("scrape stopped early", zap.Error(err))
			}

			rt.logger.Info("scrape finished",
				zap.String("site", siteName),
				zap.Int("urls", len(urls)),
				zap.Int("scraped", len(products)),
				zap.String("dir", s.SiteDir(siteName)))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxURLs, "max", 50, "maximum number of product URLs to discover")
	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "file with one product URL per line")

	return cmd
}

func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
