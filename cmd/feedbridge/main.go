// Feedbridge aggregates articles from configured publishers, both standard
// feeds and bespoke bridges, into a single static page, and serves the
// saved-articles API next to it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/RobinCoderZhao/feedbridge/internal/aggregator"
	"github.com/RobinCoderZhao/feedbridge/internal/api"
	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	"github.com/RobinCoderZhao/feedbridge/internal/cache"
	"github.com/RobinCoderZhao/feedbridge/internal/config"
	"github.com/RobinCoderZhao/feedbridge/internal/render"
	"github.com/RobinCoderZhao/feedbridge/internal/saved"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var (
		configPath string
		dataDir    string
	)

	rootCmd := &cobra.Command{
		Use:   "feedbridge",
		Short: "Personal article aggregator",
		Long:  "Feedbridge fetches articles from configured feeds and per-publisher bridges, merges them into one time-ordered page, and serves it with a saved-articles API.",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the YAML configuration")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "directory for cache and saved-article databases")

	rootCmd.AddCommand(buildCmd(&configPath, &dataDir))
	rootCmd.AddCommand(serveCmd(&dataDir))
	rootCmd.AddCommand(cacheCmd(&dataDir))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd(configPath, dataDir *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch all sources and write the static page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), *configPath, *dataDir, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "index.html", "output HTML file")
	return cmd
}

func runBuild(ctx context.Context, configPath, dataDir, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := cache.Open(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	client := bridge.NewClient()
	ids := cfg.AllSourceIDs()

	var sources []bridge.Source
	for _, id := range ids {
		d, ok := cfg.Descriptor(id)
		if !ok {
			slog.Warn("group references unknown source", "source", id)
			continue
		}
		src, err := bridge.New(d, client)
		if err != nil {
			slog.Warn("skipping source", "source", id, "error", err)
			continue
		}
		sources = append(sources, src)
	}

	slog.Info("fetching sources", "count", len(sources))
	agg := aggregator.New(sources, store, slog.Default())
	articles := agg.Run(ctx, ids)
	slog.Info("aggregation finished", "articles", len(articles))

	if err := render.WriteFile(out, render.Page{
		Articles:    articles,
		Groups:      cfg.Groups,
		SourceNames: cfg.SourceNames(),
	}); err != nil {
		return err
	}
	slog.Info("wrote page", "path", out)
	return nil
}

func serveCmd(dataDir *string) *cobra.Command {
	var (
		addr string
		root string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered page and the saved-articles API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := saved.Open(filepath.Join(*dataDir, "articles.db"))
			if err != nil {
				return err
			}
			defer store.Close()

			srv := api.NewServer(store, root)
			slog.Info("serving", "addr", addr, "root", root)
			return http.ListenAndServe(addr, srv.Routes())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":3000", "listen address")
	cmd.Flags().StringVar(&root, "root", ".", "directory with the rendered page")
	return cmd
}

func cacheCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the source cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the age and status of every cached source",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(filepath.Join(*dataDir, "cache.db"))
			if err != nil {
				return err
			}
			defer store.Close()

			statuses, err := store.Status(cmd.Context())
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Println("cache is empty")
				return nil
			}
			for _, s := range statuses {
				fmt.Printf("%-20s %4d min  %s\n", s.SourceID, s.AgeMinutes, s.Status)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear [source]",
		Short: "Purge one source's cache entry, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(filepath.Join(*dataDir, "cache.db"))
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return store.Clear(cmd.Context(), args[0])
			}
			return store.ClearAll(cmd.Context())
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("feedbridge", version)
		},
	}
}
