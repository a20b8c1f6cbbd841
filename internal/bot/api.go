package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// api is the slice of the Telegram client the bot uses. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake.
type api interface {
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	StopReceivingUpdates()
}
