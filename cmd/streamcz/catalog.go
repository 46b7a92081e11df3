package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>...",
	Short: "Search the film catalog",
	Long: `Search the film catalog for movies and series.

Results are cached by the server; use --refresh to bypass the cache.

Examples:
  streamcz search "Matrix"
  streamcz search --refresh Přátelé`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

var titleCmd = &cobra.Command{
	Use:   "title <title-id>",
	Short: "Show a stored catalog title",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitleCmd,
}

var seriesCmd = &cobra.Command{
	Use:   "series <title-id>",
	Short: "List the seasons of a series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesCmd,
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <series-id>",
	Short: "List the episodes of a season",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodesCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd, titleCmd, seriesCmd, episodesCmd)
	for _, cmd := range []*cobra.Command{searchCmd, seriesCmd, episodesCmd} {
		cmd.Flags().Bool("refresh", false, "Bypass cached results")
	}
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	refresh, _ := cmd.Flags().GetBool("refresh")

	client := NewClient(serverURL)
	results, err := client.SearchTitles(query, refresh)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(results)
		return nil
	}

	if len(results.Items) == 0 {
		fmt.Println("No titles found")
		return nil
	}

	fmt.Printf("Found %d titles for %q:\n\n", len(results.Items), query)
	fmt.Printf("  %-9s │ %-40s │ %4s │ %-6s │ %5s\n", "ID", "TITLE", "YEAR", "TYPE", "SCORE")
	fmt.Println("───────────┼──────────────────────────────────────────┼──────┼────────┼───────")
	for _, t := range results.Items {
		fmt.Printf("  %-9d │ %-40s │ %4d │ %-6s │ %5d\n", t.ID, truncate(t.Title, 40), t.Year, t.Kind, t.Score)
	}
	return nil
}

func runTitleCmd(_ *cobra.Command, args []string) error {
	id, err := parseTitleID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	t, err := client.Title(id)
	if err != nil {
		return fmt.Errorf("failed to get title: %w", err)
	}

	if jsonOutput {
		printJSON(t)
		return nil
	}

	fmt.Printf("%s (%d)\n", t.Title, t.Year)
	fmt.Printf("  ID:       %d\n", t.ID)
	fmt.Printf("  Type:     %s\n", t.Kind)
	if t.Genre != "" {
		fmt.Printf("  Genre:    %s\n", t.Genre)
	}
	if t.Director != "" {
		fmt.Printf("  Director: %s\n", t.Director)
	}
	return nil
}

func runSeriesCmd(cmd *cobra.Command, args []string) error {
	id, err := parseTitleID(args[0])
	if err != nil {
		return err
	}
	refresh, _ := cmd.Flags().GetBool("refresh")

	client := NewClient(serverURL)
	series, err := client.Series(id, refresh)
	if err != nil {
		return fmt.Errorf("failed to list series: %w", err)
	}

	if jsonOutput {
		printJSON(series)
		return nil
	}

	if len(series.Items) == 0 {
		fmt.Println("No seasons listed")
		return nil
	}

	fmt.Printf("  %-10s │ %-36s │ %4s │ %s\n", "ID", "SEASON", "YEAR", "EPISODES")
	fmt.Println("────────────┼──────────────────────────────────────┼──────┼─────────")
	for _, s := range series.Items {
		fmt.Printf("  %-10s │ %-36s │ %4d │ %d\n", s.ID, truncate(s.Title, 36), s.Year, s.EpisodeCount)
	}
	return nil
}

func runEpisodesCmd(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")

	client := NewClient(serverURL)
	episodes, err := client.Episodes(args[0], refresh)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	if jsonOutput {
		printJSON(episodes)
		return nil
	}

	if len(episodes.Items) == 0 {
		fmt.Println("No episodes listed")
		return nil
	}

	fmt.Printf("  %-6s │ %-10s │ %s\n", "EP", "ID", "TITLE")
	fmt.Println("────────┼────────────┼──────────────────────────────────────")
	for _, e := range episodes.Items {
		fmt.Printf("  S%02dE%02d │ %-10s │ %s\n", e.Season, e.Episode, e.ID, truncate(e.Title, 50))
	}
	return nil
}
