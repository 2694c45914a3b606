// Package bot implements the Telegram command surface and the delivery sink
// for scheduled headlines.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nfl_bot/internal/digest"
	"nfl_bot/internal/fetcher"
	"nfl_bot/internal/model"
	"nfl_bot/internal/scheduler"
	"nfl_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// StatusProvider exposes the scheduler's observable state to /status.
type StatusProvider interface {
	Status() scheduler.Status
}

// Bot handles user commands and delivers scheduled headline messages.
type Bot struct {
	api      telegramAPI
	store    storage.Storage
	digest   *digest.Digest
	fetcher  *fetcher.Fetcher
	status   StatusProvider
	defaults []string
	log      *slog.Logger
}

// New creates a Bot with the given Telegram token. defaults is the
// deployment-wide feed list seeded into new subscriptions.
func New(token string, store storage.Storage, dig *digest.Digest, defaults []string, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:      api,
		store:    store,
		digest:   dig,
		fetcher:  fetcher.New(http.DefaultClient, log),
		defaults: defaults,
		log:      log,
	}, nil
}

// SetStatusProvider wires the scheduler in after construction. The bot and
// scheduler reference each other, so one side is attached late.
func (b *Bot) SetStatusProvider(sp StatusProvider) {
	b.status = sp
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendHeadline delivers one scheduled headline to a destination channel.
// An unresolvable destination is skipped silently; removal from the
// registry stays an explicit administrative action.
func (b *Bot) SendHeadline(channelID string, item model.Item, source string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		b.log.Debug("skip unresolvable destination", "channel", channelID)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, FormatHeadline(item, source))
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "nfl":
		b.handleNFL(ctx, chatID, args)
	case "team":
		b.handleTeam(ctx, chatID, args)
	case "injuries":
		b.handleInjuries(ctx, chatID, args)
	case "fantasynews":
		b.handleFantasyNews(ctx, chatID, args)
	case "subscribe":
		b.handleSubscribe(ctx, chatID)
	case "unsubscribe":
		b.handleUnsubscribe(ctx, chatID)
	case "feeds":
		b.handleFeeds(ctx, chatID)
	case "addfeed":
		b.handleAddFeed(ctx, chatID, args)
	case "rmfeed":
		b.handleRmFeed(ctx, chatID, args)
	case "status":
		b.handleStatus(chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
