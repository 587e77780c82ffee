package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"reddit-lead-finder/internal/domain"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestNotifySplitsLongReport(t *testing.T) {
	sender := &fakeSender{}
	long := strings.Repeat("строка отчёта\n", 600)
	n := NewNotifier(sender, 42, func(domain.Run) string { return long })
	if err := n.Notify(context.Background(), domain.Run{}); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(sender.sent) < 2 {
		t.Fatalf("ожидали несколько сообщений, получили %d", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeHTML {
			t.Fatalf("unexpected message config: %+v", msg)
		}
	}
}

func TestNotifyReturnsSendError(t *testing.T) {
	n := NewNotifier(&fakeSender{err: errors.New("blocked")}, 1, func(domain.Run) string { return "hi" })
	if err := n.Notify(context.Background(), domain.Run{}); err == nil {
		t.Fatal("ожидали ошибку отправки")
	}
}
