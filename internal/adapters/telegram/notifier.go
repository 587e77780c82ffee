package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/metrics"
)

// Sender отправляет сообщения в Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет отчёт о запуске в чат.
type Notifier struct {
	bot    Sender
	chatID int64
	format func(domain.Run) string
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier создаёт уведомитель. format формирует HTML-текст отчёта.
func NewNotifier(bot Sender, chatID int64, format func(domain.Run) string) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, format: format}
}

// NewBot создаёт клиента Bot API по токену.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// Notify отправляет отчёт, разбивая его на части по лимиту Telegram.
func (n *Notifier) Notify(ctx context.Context, run domain.Run) error {
	for i, part := range SplitMessage(n.format(run)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		start := time.Now()
		_, err := n.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram", "send_message", "report", start, err)
		if err != nil {
			return fmt.Errorf("send report part %d: %w", i+1, err)
		}
	}
	return nil
}
