package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Long: `Show recent events from the server's event log, newest first.

--type keeps events whose type starts with the given prefix,
e.g. "sources" or "history.bound".`,
	Args: cobra.NoArgs,
	RunE: runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to fetch")
	eventsCmd.Flags().StringP("type", "t", "", "Only show event types with this prefix")
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	prefix, _ := cmd.Flags().GetString("type")

	resp, err := NewClient(serverURL).Events(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	items := filterEvents(resp.Items, prefix)

	if jsonOutput {
		printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Recent events (%d of %d):\n\n", len(items), resp.Total)
	fmt.Printf("  %-10s %-24s %-14s %s\n", "WHEN", "TYPE", "ENTITY", "DETAIL")
	fmt.Println("  " + strings.Repeat("─", 76))
	for _, e := range items {
		when := "?"
		if t, err := time.Parse(time.RFC3339, e.OccurredAt); err == nil {
			when = formatTimeAgo(t.Unix())
		}
		entity := truncate(e.EntityType+"/"+e.EntityID, 14)
		fmt.Printf("  %-10s %-24s %-14s %s\n", when, e.EventType, entity, truncate(describeEvent(e), 40))
	}
	return nil
}

func filterEvents(items []EventResponse, prefix string) []EventResponse {
	if prefix == "" {
		return items
	}
	var out []EventResponse
	for _, e := range items {
		if strings.HasPrefix(e.EventType, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// eventDetail holds the payload fields worth a column in the listing.
type eventDetail struct {
	Query        string   `json:"query"`
	Results      *int     `json:"results"`
	Cached       bool     `json:"cached"`
	Revision     uint64   `json:"revision"`
	Reason       string   `json:"reason"`
	Count        *int     `json:"count"`
	SelectedLink string   `json:"selected_link"`
	Error        string   `json:"error"`
	ShowTitle    string   `json:"show_title"`
	Season       *int     `json:"season"`
	Episode      *int     `json:"episode"`
	SourceTitle  string   `json:"source_title"`
	Position     *float64 `json:"position"`
}

// describeEvent summarizes an event payload in one line.
func describeEvent(e EventResponse) string {
	var d eventDetail
	if len(e.Payload) == 0 || json.Unmarshal(e.Payload, &d) != nil {
		return ""
	}

	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	if d.ShowTitle != "" {
		add("%s", d.ShowTitle)
	}
	if ep := formatEpisode(d.Season, d.Episode); ep != "" {
		add("%s", ep)
	}
	if d.Query != "" && d.ShowTitle == "" {
		add("%q", d.Query)
	}
	if d.Revision > 0 {
		add("rev %d", d.Revision)
	}
	if d.Reason != "" {
		add("(%s)", strings.ReplaceAll(d.Reason, "_", " "))
	}
	if d.Results != nil {
		add("%d results", *d.Results)
	}
	if d.Cached {
		add("cached")
	}
	if d.Count != nil {
		add("%d sources", *d.Count)
	}
	if d.SourceTitle != "" {
		add("%s", d.SourceTitle)
	}
	if d.Position != nil {
		add("@ %s", formatPosition(*d.Position))
	}
	if d.Error != "" {
		add("error: %s", d.Error)
	}
	return strings.Join(parts, " ")
}
