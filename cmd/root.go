// Package cmd defines and implements the CLI commands for the vapescout
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/api"
	"github.com/sbrennan/vapescout/internal/config"
	"github.com/sbrennan/vapescout/internal/crawler"
	"github.com/sbrennan/vapescout/internal/extractor"
	collyfetcher "github.com/sbrennan/vapescout/internal/fetcher/colly"
	"github.com/sbrennan/vapescout/internal/logging"
	"github.com/sbrennan/vapescout/internal/retry"
	"github.com/sbrennan/vapescout/internal/scraper"
)

var (
	cfgFile     string
	metricsAddr string
)

// runtime bundles the services every subcommand needs. It is built once in
// PersistentPreRunE and torn down in PersistentPostRun.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

type runtimeKeyType string

const runtimeKey runtimeKeyType = "runtime"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vapescout",
		Short: "Discovers, scrapes, and structures vape product data.",
		Long: `vapescout walks configured e-commerce sites to discover product URLs,
scrapes each product page into raw text files, and extracts structured
attributes from them with an LLM, producing a CSV of the results.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey, rt))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(runtimeKey).(*runtime); ok && rt != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address (overrides metrics.addr)")

	cmd.AddCommand(newDiscoverCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if cfg.Metrics.Addr != "" {
		api.NewServer(cfg.Metrics.Addr, logger).Start(ctx)
	}

	return &runtime{cfg: cfg, logger: logger}, nil
}

func resolveRuntime(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey).(*runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return rt, nil
}

// sites converts the configured registry into the crawler's site map.
func (rt *runtime) sites() map[string]crawler.Site {
	sites := make(map[string]crawler.Site, len(rt.cfg.Sites))
	for name, sc := range rt.cfg.Sites {
		sites[name] = crawler.Site{
			Name:           name,
			BaseURL:        sc.BaseURL,
			ProductPattern: sc.ProductPattern,
		}
	}
	return sites
}

func (rt *runtime) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: rt.cfg.Crawler.MaxRetries,
		Delay:       rt.cfg.Crawler.RetryDelay(),
	}
}

func (rt *runtime) newFetcher() *collyfetcher.Fetcher {
	return collyfetcher.New(collyfetcher.Config{
		UserAgent: rt.cfg.Crawler.UserAgent,
		Timeout:   rt.cfg.Crawler.FetchTimeout(),
		Retry:     rt.retryPolicy(),
	})
}

func (rt *runtime) newCrawler(fetcher crawler.Fetcher) *crawler.Crawler {
	return crawler.New(rt.sites(), fetcher, crawler.Config{
		Concurrency: rt.cfg.Crawler.Concurrency,
		BatchSize:   rt.cfg.Crawler.BatchSize,
	}, rt.logger)
}

func (rt *runtime) newScraper(fetcher crawler.Fetcher) (*scraper.Scraper, error) {
	return scraper.New(fetcher, scraper.Config{
		OutputDir: rt.cfg.Scraper.OutputDir,
		Delay:     rt.cfg.Scraper.PageDelay(),
	}, rt.logger)
}

func (rt *runtime) newExtractor() (*extractor.Extractor, error) {
	client, err := extractor.NewOpenAIClient(extractor.OpenAIConfig{
		APIKey:          rt.cfg.Extractor.APIKey,
		Model:           rt.cfg.Extractor.Model,
		AzureEndpoint:   rt.cfg.Extractor.AzureEndpoint,
		AzureDeployment: rt.cfg.Extractor.AzureDeployment,
	})
	if err != nil {
		return nil, fmt.Errorf("init extraction client: %w", err)
	}
	return extractor.New(client, extractor.Config{
		BatchSize:  rt.cfg.Extractor.BatchSize,
		BatchPause: rt.cfg.Extractor.BatchPause(),
		OutputDir:  rt.cfg.Scraper.OutputDir,
		Retry:      rt.retryPolicy(),
	}, rt.cfg.SiteNames(), rt.logger), nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
