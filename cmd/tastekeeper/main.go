package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tastekeeper",
		Short: "Watch-driven Plex collection curator",
		Long: `Tastekeeper reacts to "movie watched" events: it asks an LLM for
movies similar to and contrasting with the one just watched, adds the
ones already in your Plex library to two curated collections, and sends
the missing ones to Radarr.

Collections:
  - "Based on your recently watched movie" (similar picks)
  - "Change of Taste" (deliberate palate cleansers)

Wire 'tastekeeper watched' into a Tautulli playback-stop script, and
'tastekeeper refresh' into cron to reshuffle collection order.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tastekeeper/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newWatchedCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tastekeeper %s\n", version)
		},
	}
}
