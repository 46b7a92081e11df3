package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and update watch history",
	Long: `Show recently played titles, or bind and advance playback positions.

Examples:
  streamcz history
  streamcz history bind 9499 https://prehraj.to/matrix/8a3d6f1c2b --title Matrix
  streamcz history advance 9499 1:02:03`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyBindCmd = &cobra.Command{
	Use:   "bind <title-id> <source-link>",
	Short: "Start playback of a title on a source",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryBind,
}

var historyAdvanceCmd = &cobra.Command{
	Use:   "advance <title-id> <position>",
	Short: "Record a playback checkpoint (seconds or h:mm:ss)",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryAdvance,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyBindCmd, historyAdvanceCmd)

	historyBindCmd.Flags().String("title", "", "Title name, stored when the title is unknown")
	historyBindCmd.Flags().String("source-title", "", "Display title of the source")
	historyBindCmd.Flags().String("position", "0", "Starting position (seconds or h:mm:ss)")
	historyBindCmd.Flags().String("series", "", "Catalog series id of the episode")
	historyBindCmd.Flags().String("episode", "", "Episode being played, e.g. S01E02")

	historyAdvanceCmd.Flags().Bool("force", false, "Persist even small moves")
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	client := NewClient(serverURL)
	history, err := client.History()
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if jsonOutput {
		printJSON(history)
		return nil
	}

	if len(history.Items) == 0 {
		fmt.Println("Nothing watched yet")
		return nil
	}

	fmt.Printf("  %-9s │ %-36s │ %-6s │ %8s │ %s\n", "ID", "TITLE", "EP", "POSITION", "PLAYED")
	fmt.Println("────────────┼──────────────────────────────────────┼────────┼──────────┼──────────")
	for _, h := range history.Items {
		fmt.Printf("  %-9d │ %-36s │ %-6s │ %8s │ %s\n",
			h.TitleID, truncate(h.TitleName, 36), formatEpisode(h.Season, h.Episode),
			formatPosition(h.Position), formatTimeAgo(h.LastPlayed.Unix()))
	}
	return nil
}

func formatEpisode(season, episode *int) string {
	if season == nil || episode == nil {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", *season, *episode)
}

func runHistoryBind(cmd *cobra.Command, args []string) error {
	titleID, err := parseTitleID(args[0])
	if err != nil {
		return err
	}
	titleName, _ := cmd.Flags().GetString("title")
	sourceTitle, _ := cmd.Flags().GetString("source-title")
	positionStr, _ := cmd.Flags().GetString("position")
	seriesID, _ := cmd.Flags().GetString("series")
	episodeSpec, _ := cmd.Flags().GetString("episode")

	position, err := parsePosition(positionStr)
	if err != nil {
		return err
	}

	req := &BindHistoryRequest{
		TitleID:     titleID,
		TitleName:   titleName,
		Position:    position,
		SourceLink:  args[1],
		SourceTitle: sourceTitle,
	}
	if seriesID != "" {
		req.SeriesID = &seriesID
	}
	if episodeSpec != "" {
		season, episode, err := parseEpisodeSpec(episodeSpec)
		if err != nil {
			return err
		}
		req.Season, req.Episode = &season, &episode
	}

	client := NewClient(serverURL)
	entry, err := client.BindHistory(req)
	if err != nil {
		return fmt.Errorf("bind failed: %w", err)
	}

	if jsonOutput {
		printJSON(entry)
		return nil
	}
	fmt.Printf("Playing %s from %s\n", entry.TitleName, formatPosition(entry.Position))
	return nil
}

func runHistoryAdvance(cmd *cobra.Command, args []string) error {
	titleID, err := parseTitleID(args[0])
	if err != nil {
		return err
	}
	position, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	client := NewClient(serverURL)
	res, err := client.AdvanceHistory(titleID, position, force)
	if err != nil {
		return fmt.Errorf("advance failed: %w", err)
	}

	if jsonOutput {
		printJSON(res)
		return nil
	}
	if res.Skipped {
		fmt.Printf("Position unchanged (stored %s)\n", formatPosition(res.Entry.Position))
		return nil
	}
	fmt.Printf("Saved %s at %s\n", res.Entry.TitleName, formatPosition(res.Entry.Position))
	return nil
}
