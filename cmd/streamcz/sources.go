package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/service"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [flags] <query>...",
	Short: "Find playable uploads on the hosting site",
	Long: `Find playable uploads on the hosting site, HD first, then by size.

With --episode the query is taken as the show title and expanded into
the usual episode phrasings.

Examples:
  streamcz sources Matrix --year 1999
  streamcz sources Přátelé --episode S01E02`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSourcesCmd,
}

var streamCmd = &cobra.Command{
	Use:   "stream <path-or-link>",
	Short: "Resolve an upload to a direct stream URL",
	Long: `Resolve an upload to a direct stream URL.

Stream URLs expire and are never cached.

Examples:
  streamcz stream matrix-1999-cz/8a3d6f1c2b
  streamcz stream https://prehraj.to/matrix-1999-cz/8a3d6f1c2b`,
	Args: cobra.ExactArgs(1),
	RunE: runStreamCmd,
}

func init() {
	rootCmd.AddCommand(sourcesCmd, streamCmd)
	sourcesCmd.Flags().Int("year", 0, "Release year (informational)")
	sourcesCmd.Flags().String("episode", "", "Episode to search for, e.g. S01E02")
	sourcesCmd.Flags().Bool("refresh", false, "Bypass cached results")
}

// sourceQuery builds the hosting query for a title and optional episode spec.
func sourceQuery(title, episode string) (string, error) {
	if episode == "" {
		return title, nil
	}
	season, ep, err := parseEpisodeSpec(episode)
	if err != nil {
		return "", err
	}
	return service.EpisodeQuery(title, season, ep), nil
}

func runSourcesCmd(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	episode, _ := cmd.Flags().GetString("episode")
	refresh, _ := cmd.Flags().GetBool("refresh")

	query, err := sourceQuery(strings.Join(args, " "), episode)
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	sources, err := client.Sources(query, year, refresh)
	if err != nil {
		return fmt.Errorf("source search failed: %w", err)
	}

	if jsonOutput {
		printJSON(sources)
		return nil
	}

	if len(sources.Items) == 0 {
		fmt.Println("No sources found")
		return nil
	}

	printSources(sources.Items, "")
	return nil
}

func printSources(sources []SourceResponse, selectedLink string) {
	fmt.Printf("Sources (%d):\n\n", len(sources))
	fmt.Printf("  # │ %-44s │ %-4s │ %10s │ %8s\n", "TITLE", "Q", "SIZE", "LENGTH")
	fmt.Println("────┼──────────────────────────────────────────────┼──────┼────────────┼──────────")
	for i, s := range sources {
		marker := " "
		if selectedLink != "" && s.Link == selectedLink {
			marker = "*"
		}
		fmt.Printf("%s%2d │ %-44s │ %-4s │ %10s │ %8s\n",
			marker, i+1, truncate(s.Title, 44), s.Quality, s.Size, s.Duration)
		fmt.Printf("    │ %s\n", hosting.PathFromLink(s.Link))
	}
}

func runStreamCmd(_ *cobra.Command, args []string) error {
	path := hosting.PathFromLink(args[0])
	if path == "" {
		return fmt.Errorf("invalid path: %s", args[0])
	}

	client := NewClient(serverURL)
	stream, err := client.Stream(path)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if jsonOutput {
		printJSON(stream)
		return nil
	}

	fmt.Printf("%s\n", stream.Title)
	if stream.Quality != "" || stream.Size != "" || stream.Duration != "" {
		fmt.Printf("  %s\n", strings.Join(nonEmpty(stream.Quality, stream.Size, stream.Duration), " · "))
	}
	fmt.Println(stream.StreamURL)
	return nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
