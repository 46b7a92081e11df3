package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamcz/internal/hosting"
)

var playCmd = &cobra.Command{
	Use:   "play [flags] <title-id> <query>...",
	Short: "Point a player session at a title and wait for its sources",
	Long: `Point a player session at a title and wait for its sources.

The server recomputes the session's sources in the background; this
command waits for the result and, with --resolve, prints the stream URL
of the selected source. A source bound in watch history is preferred.

Examples:
  streamcz play 9499 Matrix --year 1999
  streamcz play 72489 Přátelé --episode S01E02 --resolve`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPlayCmd,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Int("year", 0, "Release year (informational)")
	playCmd.Flags().String("episode", "", "Episode to play, e.g. S01E02")
	playCmd.Flags().String("series", "", "Catalog series id of the episode")
	playCmd.Flags().Bool("refresh", false, "Bypass cached sources")
	playCmd.Flags().Bool("resolve", false, "Resolve the selected source to a stream URL")
	playCmd.Flags().Duration("timeout", 90*time.Second, "How long to wait for sources")
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	titleID, err := parseTitleID(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")
	year, _ := cmd.Flags().GetInt("year")
	episodeSpec, _ := cmd.Flags().GetString("episode")
	seriesID, _ := cmd.Flags().GetString("series")
	refresh, _ := cmd.Flags().GetBool("refresh")
	resolve, _ := cmd.Flags().GetBool("resolve")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client := NewClient(serverURL)

	var change *PlayerChangeResponse
	if episodeSpec != "" {
		season, episode, err := parseEpisodeSpec(episodeSpec)
		if err != nil {
			return err
		}
		change, err = client.SelectEpisode(titleID, &PlayerEpisodeRequest{
			ShowTitle: query,
			SeriesID:  seriesID,
			Season:    season,
			Episode:   episode,
			Refresh:   refresh,
		})
		if err != nil {
			return fmt.Errorf("select episode failed: %w", err)
		}
	} else {
		change, err = client.ChangeQuery(titleID, &PlayerQueryRequest{Query: query, Year: year, Refresh: refresh})
		if err != nil {
			return fmt.Errorf("change query failed: %w", err)
		}
	}

	sess, err := waitForSession(client, titleID, change.Revision, timeout, 500*time.Millisecond)
	if err != nil {
		return err
	}

	if jsonOutput && !resolve {
		printJSON(sess)
		return nil
	}
	if sess.State == "failed" {
		return fmt.Errorf("source search failed: %s", sess.Error)
	}

	if !jsonOutput {
		if len(sess.Sources) == 0 {
			fmt.Println("No sources found")
			return nil
		}
		selected := ""
		if sess.Selected != nil {
			selected = sess.Selected.Link
		}
		printSources(sess.Sources, selected)
	}

	if !resolve || sess.Selected == nil {
		return nil
	}
	stream, err := client.Stream(hosting.PathFromLink(sess.Selected.Link))
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	if jsonOutput {
		printJSON(stream)
		return nil
	}
	fmt.Printf("\nStream: %s\n", stream.StreamURL)
	return nil
}

// errSuperseded reports that another client changed the session while waiting.
var errSuperseded = errors.New("session changed by another client")

// waitForSession polls the session until the given revision settles.
func waitForSession(client *Client, titleID int64, revision uint64, timeout, interval time.Duration) (*SessionResponse, error) {
	deadline := time.Now().Add(timeout)
	for {
		sess, err := client.Session(titleID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch session: %w", err)
		}
		if sess.Revision > revision {
			return nil, errSuperseded
		}
		if sess.Revision == revision && (sess.State == "ready" || sess.State == "failed") {
			return sess, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out after %s waiting for sources", timeout)
		}
		time.Sleep(interval)
	}
}
