package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tastekeeper/internal/collection"
	"tastekeeper/internal/logging"
)

func newRefreshCmd() *cobra.Command {
	var (
		dryRun  bool
		noPause bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "refresh [collection]",
		Short: "Reshuffle collection order",
		Long: `Reshuffle the presentation order of the managed collections.

Plex shows collections in insertion order, so freshly added movies pile
up at the front. Refresh removes all items and re-adds them in a random
order, in batches, without changing membership. Intended to run from
cron.

With no argument both collections are refreshed. The argument may be
"similar", "contrasting", or a full collection name.

Examples:
  tastekeeper refresh
  tastekeeper refresh similar
  tastekeeper refresh --dry-run --verbose
  tastekeeper refresh --log-file ~/.config/tastekeeper/logs/refresh.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd, args, dryRun, noPause, logFile)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "log the shuffle without touching the collection")
	cmd.Flags().BoolVar(&noPause, "no-pause", false, "skip the pause between batches")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	return cmd
}

func selectSpecs(arg string) ([]collection.Spec, error) {
	if arg == "" {
		return collection.Specs(), nil
	}
	switch {
	case strings.EqualFold(arg, "similar"),
		strings.EqualFold(arg, collection.Similar.Name):
		return []collection.Spec{collection.Similar}, nil
	case strings.EqualFold(arg, "contrasting"),
		strings.EqualFold(arg, collection.Contrasting.Name):
		return []collection.Spec{collection.Contrasting}, nil
	}
	return nil, fmt.Errorf("unknown collection %q (expected \"similar\" or \"contrasting\")", arg)
}

func runRefresh(cmd *cobra.Command, args []string, dryRun, noPause bool, logFile string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	specs, err := selectSpecs(arg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, logFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	if path := logger.FilePath(); path != "" {
		fmt.Printf("Logging to %s\n", path)
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	library := &plexLibrary{client: newPlexClient(cfg)}
	refresher := collection.NewRefresher(store, library, logger, refresherConfig(cfg, noPause))

	mode := "live"
	if dryRun {
		mode = "DRY RUN"
	}

	var failures []error
	for _, spec := range specs {
		result, err := refresher.Refresh(cmd.Context(), spec, dryRun)
		if errors.Is(err, collection.ErrLocked) {
			logger.Warn("refresh", "collection busy, skipping",
				logging.F("collection", spec.Name))
			fmt.Printf("%s: locked by another run, skipped\n", spec.Name)
			continue
		}
		if err != nil {
			fmt.Printf("%s [%s]: FAILED: %v\n", spec.Name, mode, err)
			failures = append(failures, err)
			continue
		}

		fmt.Printf("%s [%s]: %d items shuffled (removed %d, re-added %d)\n",
			spec.Name, mode, result.Filtered, result.Removed, result.Readded)
	}

	return errors.Join(failures...)
}
