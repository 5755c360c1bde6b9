package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tastekeeper/internal/collection"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check collaborator connections and collection state",
		Long: `Verify connectivity to Plex, Radarr, and the recommendation API,
and show the tracked size of both collections.`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Tastekeeper Status")
	fmt.Println("==================")

	plexClient := newPlexClient(cfg)
	if name, err := plexClient.Ping(); err != nil {
		fmt.Printf("Plex:   ✗ %v\n", err)
	} else {
		fmt.Printf("Plex:   ✓ connected to %s (%s)\n", name, cfg.Plex.URL)
	}

	radarrClient := newRadarrClient(cfg)
	if status, err := radarrClient.GetSystemStatus(); err != nil {
		fmt.Printf("Radarr: ✗ %v\n", err)
	} else {
		fmt.Printf("Radarr: ✓ %s %s (%s)\n", status.AppName, status.Version, cfg.Radarr.URL)
	}

	source := newRecommendSource(cfg)
	if err := source.Ping(cmd.Context()); err != nil {
		fmt.Printf("OpenAI: ✗ %v\n", err)
	} else {
		fmt.Printf("OpenAI: ✓ model %s\n", source.Model())
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	fmt.Println("\nCollections:")
	for _, spec := range collection.Specs() {
		rec, err := store.Load(spec)
		if err != nil {
			fmt.Printf("  %-40s load failed: %v\n", spec.Name, err)
			continue
		}

		detail := "no state file yet"
		if info, err := os.Stat(store.Path(spec)); err == nil {
			detail = fmt.Sprintf("updated %s", info.ModTime().Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("  %-40s %d tracked (%s)\n", spec.Name, len(rec.Movies), detail)
	}

	return nil
}
