package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Dial authenticates against the Telegram Bot API, retrying transient
// failures with exponential backoff for up to a minute.
func Dial(ctx context.Context, token string, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.MaxInterval = 5 * time.Second

	attempt := 0
	op := func() (*tgbotapi.BotAPI, error) {
		attempt++
		client, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			logger.Warn("telegram auth failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return nil, err
		}
		return client, nil
	}

	client, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	logger.Info("connected to telegram", zap.String("bot_username", client.Self.UserName))
	return client, nil
}
