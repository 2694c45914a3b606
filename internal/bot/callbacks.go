package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbUnsubscribe = "unsub"
	cbNoop        = "noop"
)

// handleUnsubscribe asks for confirmation before dropping the subscription.
func (b *Bot) handleUnsubscribe(ctx context.Context, chatID int64) {
	channelID := strconv.FormatInt(chatID, 10)

	subscribed, err := b.store.IsSubscribed(ctx, channelID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !subscribed {
		b.reply(chatID, "This chat is not subscribed.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Stop delivering headlines to this chat?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, unsubscribe", cbUnsubscribe),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", cbNoop),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send unsubscribe confirmation", "error", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(ack); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	b.log.Info("callback",
		"action", cb.Data,
		"chat_id", chatID,
		"user_id", cb.From.ID,
		"username", cb.From.UserName,
	)

	switch cb.Data {
	case cbUnsubscribe:
		channelID := strconv.FormatInt(chatID, 10)
		if err := b.store.Unsubscribe(ctx, channelID); err != nil {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		b.reply(chatID, "Unsubscribed. Use /subscribe to start deliveries again.")
	case cbNoop:
		// Cancelled, nothing to do.
	}
}
