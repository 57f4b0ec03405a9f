package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyike/quotebridge/config"
	"github.com/dyike/quotebridge/internal/longbridge"
	"github.com/dyike/quotebridge/internal/provider"
	"github.com/dyike/quotebridge/internal/ratelimit"
	"github.com/dyike/quotebridge/internal/sector"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quotebridge",
		Short: "Rate-governed market data fetching via Longbridge and a Chrome-scraped sector board",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newHistoryCmd(),
		newRealtimeCmd(),
		newIndexesCmd(),
		newWatchlistCmd(),
		newSectorsCmd(),
	)
	return rootCmd
}

// newFetcher wires one limiter into one Longbridge fetcher from the
// environment config.
func newFetcher() *longbridge.Fetcher {
	cfg := config.DefaultConfig()
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	return longbridge.NewFetcher(cfg, limiter)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <symbol> <start> <end>",
		Short: "Fetch daily historical quotes (dates accept YYYY-MM-DD or YYYYMMDD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := provider.NewRegistry(newFetcher(), provider.NewYahoo())

			records, err := registry.FetchHistorical(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}
}

func newRealtimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "realtime <symbols...>",
		Short: "Fetch realtime quotes for mainland symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := newFetcher()

			quotes, err := fetcher.FetchRealtimeBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(quotes) == 0 {
				fmt.Println("no quotes (check symbols and credentials)")
				return nil
			}
			return printJSON(quotes)
		},
	}
}

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <symbols...>",
		Short: "Fetch realtime quotes with the extended indicator set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := newFetcher()

			quotes, err := fetcher.FetchRealtimeWithIndicators(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(quotes) == 0 {
				fmt.Println("no quotes (check symbols and credentials)")
				return nil
			}
			return printJSON(quotes)
		},
	}
}

func newWatchlistCmd() *cobra.Command {
	var (
		groupName string
		groupID   int64
	)
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "List symbols from a watchlist group on the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher := newFetcher()

			symbols, err := fetcher.ListWatchlist(cmd.Context(), groupName, groupID)
			if err != nil {
				return err
			}
			return printJSON(symbols)
		},
	}
	cmd.Flags().StringVar(&groupName, "group", "", "group name (takes priority over --group-id)")
	cmd.Flags().Int64Var(&groupID, "group-id", -1, "group id")
	return cmd
}

func newSectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "Scrape the industry-sector board via the Chrome debugging endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultConfig()
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			rows := sector.NewScraper(cfg).IndustrySectors(cmd.Context())
			if len(rows) == 0 {
				fmt.Println("no sector data (is Chrome running with remote debugging?)")
				return nil
			}
			return printJSON(rows)
		},
	}
}
