package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDiscoverCmd() *cobra.Command {
	var (
		maxURLs int
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "discover <site>",
		Short: "Discovers product URLs on a configured site",
		Long: `Walks a configured site breadth-first from its base URL, collecting
links that match the site's product pattern until the budget is reached or
no candidate pages remain. URLs are printed one per line, or written to a
file with --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}

			urls, err := rt.newCrawler(rt.newFetcher()).FindProductURLs(cmd.Context(), args[0], maxURLs)
			if err != nil && len(urls) == 0 {
				return fmt.Errorf("discover product urls: %w", err)
			}
			if err != nil {
				rt.logger.Warn("discovery stopped early", zap.Error(err))
			}

			if outFile != "" {
				data := strings.Join(urls, "\n")
				if len(urls) > 0 {
					data += "\n"
				}
				if werr := os.WriteFile(outFile, []byte(data), 0o640); werr != nil {
					return fmt.Errorf("write url list: %w", werr)
				}
				rt.logger.Info("url list written",
					zap.String("path", outFile), zap.Int("count", len(urls)))
				return nil
			}

			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxURLs, "max", 50, "maximum number of product URLs to collect")
	cmd.Flags().StringVar(&outFile, "out", "", "write URLs to this file instead of stdout")

	return cmd
}
