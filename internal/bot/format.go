package bot

import (
	"fmt"
	"strings"
	"time"

	"nfl_bot/internal/model"
	"nfl_bot/internal/scheduler"
)

const statusTimeLayout = "2006-01-02 15:04:05 UTC"

// FormatHeadline formats one scheduled headline delivery.
func FormatHeadline(item model.Item, source string) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString("\n")
	b.WriteString(item.Link)
	if source != "" {
		fmt.Fprintf(&b, "\n(%s)", source)
	}
	return b.String()
}

// FormatHeadlines formats an on-demand query result as a bullet list.
func FormatHeadlines(items []model.Item) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s — %s", it.Title, it.Link)
	}
	return b.String()
}

// FormatFeeds formats a channel's explicit feed list.
func FormatFeeds(feeds []string) string {
	if len(feeds) == 0 {
		return "This chat uses the default feed list."
	}
	var b strings.Builder
	b.WriteString("Feeds for this chat:\n")
	for _, f := range feeds {
		fmt.Fprintf(&b, "• %s\n", f)
	}
	return b.String()
}

// FormatStatus formats the scheduler status for the /status command.
func FormatStatus(st scheduler.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Up since: %s\n", st.StartedAt.Format(statusTimeLayout))
	fmt.Fprintf(&b, "Ticks completed: %d\n", st.TickCount)
	if !st.LastTickAt.IsZero() {
		fmt.Fprintf(&b, "Last tick: %s\n", st.LastTickAt.Format(statusTimeLayout))
	}
	if !st.NextTickAt.IsZero() {
		eta := time.Until(st.NextTickAt).Round(time.Second)
		if eta < 0 {
			eta = 0
		}
		fmt.Fprintf(&b, "Next tick: in %s\n", eta)
	}
	fmt.Fprintf(&b, "Subscriptions: %d\n", st.Subscriptions)
	fmt.Fprintf(&b, "Seen entries: %d\n", st.SeenCount)
	if st.LastError != "" {
		fmt.Fprintf(&b, "Last error: %s\n", st.LastError)
	} else {
		b.WriteString("Last error: none\n")
	}
	for _, fh := range st.UnhealthyFeeds {
		fmt.Fprintf(&b, "Unhealthy feed: %s (%d failures)\n", fh.Feed, fh.Failures)
	}
	return strings.TrimRight(b.String(), "\n")
}
