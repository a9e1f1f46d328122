package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/statefile"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL    = "FARM2FORK_API_URL"
	envStateFile = "FARM2FORK_STATE_FILE"
)

type rootOptions struct {
	apiURL    string
	stateFile string
	rawURL    string
	timeout   time.Duration
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "farm2fork-browse",
		Short: "Parcourir les fermes Farm to Fork depuis le terminal",
		Long: `Parcourt les fermes publiées par le service Farm to Fork.

La position de la carte, le zoom, les filtres et l'état de la carte sont
conservés entre deux lancements dans un fichier d'état local.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOrDefault(envAPIURL, "http://localhost:8080"), "Adresse du service Farm to Fork (ou "+envAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&opts.stateFile, "state", os.Getenv(envStateFile), "Fichier d'état local (ou "+envStateFile+")")
	rootCmd.PersistentFlags().StringVar(&opts.rawURL, "url", "", "Lien partagé à appliquer avant la commande (?lat=..&lng=..&zoom=..)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 20*time.Second, "Délai maximal d'une requête")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Journal détaillé sur stderr")

	rootCmd.AddCommand(
		newListCmd(opts),
		newMoreCmd(opts),
		newFilterCmd(opts),
		newBoundsCmd(opts),
		newStateCmd(opts),
		newOptionsCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) statePath() (string, error) {
	if o.stateFile != "" {
		return o.stateFile, nil
	}
	return statefile.DefaultPath()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env необязателен
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erreur : %v\n", err)
		os.Exit(1)
	}
}
