package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

const defaultServerURL = "http://localhost:8585"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "streamcz",
	Short: "CLI client for the streamcz daemon",
	Long: `streamcz - CLI client for the streamcz daemon

Search the film catalog, find playable uploads on the hosting site,
resolve stream URLs and keep track of where you stopped watching.

The server address comes from --server, then $STREAMCZ_SERVER.
Run 'streamczd' to start the server daemon.`,
	SilenceUsage:      true,
	PersistentPreRunE: checkServerURL,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("STREAMCZ_SERVER", defaultServerURL), "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("streamcz {{.Version}}\n")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func checkServerURL(_ *cobra.Command, _ []string) error {
	u, err := url.Parse(serverURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q (want http://host:port)", serverURL)
	}
	return nil
}
