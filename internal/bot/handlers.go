package bot

import (
	"context"
	"fmt"
	"strconv"

	"nfl_bot/internal/nfl"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to NFL Headlines Bot!

Get league and team headlines on demand, or subscribe this chat for
automatic delivery of new stories.

Quick start:
1. /nfl — latest league headlines
2. /team lions — latest headlines for a team
3. /subscribe — deliver new headlines here automatically

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Headlines:
/nfl [count] [espn|cbs|rotowire|all] — latest league headlines
/team <name or code> [count] — latest headlines for a team
/injuries [count] — latest injury headlines
/fantasynews [count] — latest fantasy player news (RotoWire)

Subscriptions:
/subscribe — deliver new headlines to this chat
/unsubscribe — stop deliveries
/feeds — show this chat's feed list
/addfeed <url> — add a feed to this chat
/rmfeed <url> — remove a feed from this chat

Other:
/status — scheduler heartbeat, next poll, last error

Counts are clamped to 1-5.`)
}

func (b *Bot) handleNFL(ctx context.Context, chatID int64, args string) {
	count, source := ParseHeadlinesArgs(args)
	items := b.digest.Latest(ctx, nfl.SourceFeeds(source), count)
	if len(items) == 0 {
		b.reply(chatID, "No headlines right now.")
		return
	}
	b.reply(chatID, FormatHeadlines(items))
}

func (b *Bot) handleTeam(ctx context.Context, chatID int64, args string) {
	query, count := ParseTeamArgs(args)
	if query == "" {
		b.reply(chatID, "Usage: /team <name or code> [count]")
		return
	}

	team, ok := nfl.LookupTeam(query)
	if !ok {
		matches := nfl.SearchTeams(query, 2)
		if len(matches) != 1 {
			b.reply(chatID, fmt.Sprintf("Unknown team %q. Try a code like DET or a name like \"lions\".", query))
			return
		}
		team = matches[0]
	}

	items := b.digest.Latest(ctx, team.Feeds, count)
	if len(items) == 0 {
		b.reply(chatID, fmt.Sprintf("No %s headlines right now.", team.Label))
		return
	}
	b.reply(chatID, fmt.Sprintf("%s\n%s", team.Label, FormatHeadlines(items)))
}

func (b *Bot) handleInjuries(ctx context.Context, chatID int64, args string) {
	count := ParseCountArg(args)
	items := b.digest.FilteredLatest(ctx, b.defaults, count, nfl.InjuryFilters())
	if len(items) == 0 {
		b.reply(chatID, "No injury headlines right now.")
		return
	}
	b.reply(chatID, FormatHeadlines(items))
}

func (b *Bot) handleFantasyNews(ctx context.Context, chatID int64, args string) {
	count := ParseCountArg(args)
	items := b.digest.Latest(ctx, nfl.FantasyFeeds(), count)
	if len(items) == 0 {
		b.reply(chatID, "No fantasy news right now.")
		return
	}
	b.reply(chatID, FormatHeadlines(items))
}

func (b *Bot) handleSubscribe(ctx context.Context, chatID int64) {
	channelID := strconv.FormatInt(chatID, 10)

	subscribed, err := b.store.IsSubscribed(ctx, channelID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if subscribed {
		b.reply(chatID, "This chat is already subscribed.")
		return
	}

	if err := b.store.Subscribe(ctx, channelID); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	// Seed the explicit feed list with a snapshot of the current defaults;
	// later default changes do not retroactively affect this chat.
	for _, feed := range b.defaults {
		if err := b.store.AddChannelFeed(ctx, channelID, feed); err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
	}

	b.reply(chatID, "Subscribed. New headlines will be delivered here automatically.")
}

func (b *Bot) handleFeeds(ctx context.Context, chatID int64) {
	channelID := strconv.FormatInt(chatID, 10)

	subscribed, err := b.store.IsSubscribed(ctx, channelID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !subscribed {
		b.reply(chatID, "This chat is not subscribed. Use /subscribe first.")
		return
	}

	feeds, err := b.store.FeedsFor(ctx, channelID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatFeeds(feeds))
}

func (b *Bot) handleAddFeed(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /addfeed <url>")
		return
	}
	channelID := strconv.FormatInt(chatID, 10)

	subscribed, err := b.store.IsSubscribed(ctx, channelID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !subscribed {
		b.reply(chatID, "This chat is not subscribed. Use /subscribe first.")
		return
	}

	// Validate before persisting; a feed that cannot be fetched now would
	// just fail silently on every tick.
	if _, err := b.fetcher.Fetch(ctx, args); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to fetch feed: %v", err))
		return
	}

	if err := b.store.AddChannelFeed(ctx, channelID, args); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Feed added:\n%s", args))
}

func (b *Bot) handleRmFeed(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /rmfeed <url>")
		return
	}
	channelID := strconv.FormatInt(chatID, 10)

	if err := b.store.RemoveChannelFeed(ctx, channelID, args); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Feed removed:\n%s", args))
}

func (b *Bot) handleStatus(chatID int64) {
	if b.status == nil {
		b.reply(chatID, "Scheduler is not running.")
		return
	}
	b.reply(chatID, FormatStatus(b.status.Status()))
}
