// Package bot implements the Telegram collaborator: it long-polls for
// updates, routes pasted text and uploaded files through the cleaning
// pipeline, and replies with the cleaned list as a document.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fernwehlabs/mailscrub/internal/decode"
	"github.com/fernwehlabs/mailscrub/internal/logging"
	"github.com/fernwehlabs/mailscrub/internal/metrics"
	"github.com/fernwehlabs/mailscrub/pkg/cleaner"
)

// resultFileName is the name of the document sent back to the user.
const resultFileName = "cleaned_emails.txt"

// User-facing reply copy.
const (
	greetingReply = "Hi! Paste a blob of text or send me a .txt, .csv, .tsv or .xlsx file " +
		"and I will send back a deduplicated list of the email addresses inside it."
	unknownCommandReply = "I only know /start and /help. Send text or a file to get a cleaned email list."
	emptyResultReply    = "No valid email addresses found."
	unsupportedReply    = "I can only read .txt, .csv, .tsv and .xlsx files."
	unreadableReply     = "I could not read that file. Please check it opens correctly and try again."
	downloadFailedReply = "I could not download that file from Telegram. Please try again."
)

// Config holds the bot's runtime knobs.
type Config struct {
	// PollTimeout is the long-poll duration per GetUpdates call.
	PollTimeout time.Duration
	// MaxFileSize caps accepted documents, in bytes.
	MaxFileSize int64
	// SendRate limits outgoing messages per second across all chats.
	SendRate float64
	// Cleaning selects the optional cleaning stages.
	Cleaning cleaner.Options
	// HTTPClient downloads document payloads. Defaults to a client with
	// a 30s timeout.
	HTTPClient *http.Client
}

// Bot drives the update loop and its handlers.
type Bot struct {
	api         api
	client      *http.Client
	logger      *zap.Logger
	metrics     *metrics.Metrics
	limiter     *rate.Limiter
	opts        cleaner.Options
	maxFileSize int64
	pollTimeout time.Duration
}

// New creates a Bot on top of a connected Telegram client.
func New(a api, cfg Config, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	if a == nil {
		return nil, errors.New("telegram api is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 20 << 20
	}
	if cfg.SendRate <= 0 {
		cfg.SendRate = 25
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Bot{
		api:         a,
		client:      client,
		logger:      logger,
		metrics:     m,
		limiter:     rate.NewLimiter(rate.Limit(cfg.SendRate), 1),
		opts:        cfg.Cleaning,
		maxFileSize: cfg.MaxFileSize,
		pollTimeout: cfg.PollTimeout,
	}, nil
}

// Run blocks consuming updates until the context is cancelled. A clean
// shutdown returns nil.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot polling for updates", zap.Int("poll_timeout_s", u.Timeout))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	logger := b.logger.With(
		zap.String("correlation_id", uuid.NewString()),
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", msg.Chat.ID),
	)

	switch {
	case msg.IsCommand():
		b.metrics.RecordUpdate(ctx, "command")
		b.handleCommand(ctx, logger, msg)
	case msg.Document != nil:
		b.metrics.RecordUpdate(ctx, "document")
		b.handleDocument(ctx, logger, msg)
	case msg.Text != "":
		b.metrics.RecordUpdate(ctx, "text")
		b.handleText(ctx, logger, msg)
	default:
		// Photos, stickers and the rest are none of our business.
	}
}

func (b *Bot) handleCommand(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID, greetingReply))
	default:
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID, unknownCommandReply))
	}
}

func (b *Bot) handleText(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	b.respondCleaned(ctx, logger, msg, cleaner.Text(msg.Text))
}

func (b *Bot) handleDocument(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	doc := msg.Document
	logger = logger.With(
		zap.String("file_name", doc.FileName),
		zap.Int("file_size", doc.FileSize),
	)

	if int64(doc.FileSize) > b.maxFileSize {
		logger.Warn("document over size cap")
		b.metrics.RecordCleaning(ctx, metrics.OutcomeDecodeError, 0)
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("That file is too big. The limit is %d MB.", b.maxFileSize>>20)))
		return
	}

	data, err := b.download(ctx, doc.FileID)
	if err != nil {
		logger.Error("document download failed", zap.Error(err))
		b.metrics.RecordCleaning(ctx, metrics.OutcomeDecodeError, 0)
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID, downloadFailedReply))
		return
	}

	in, err := decode.File(doc.FileName, data)
	if err != nil {
		logger.Warn("document decode failed", zap.Error(err))
		b.metrics.RecordCleaning(ctx, metrics.OutcomeDecodeError, 0)
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID, decodeFailureReply(err)))
		return
	}

	b.respondCleaned(ctx, logger, msg, in)
}

// respondCleaned runs the pipeline on the decoded input and sends either
// the cleaned document or the empty-result notice.
func (b *Bot) respondCleaned(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message, in cleaner.Input) {
	start := time.Now()
	res := cleaner.Clean(in, b.opts)
	duration := time.Since(start)

	b.metrics.RecordEmails(ctx, res.Unique(), res.Duplicates, res.Invalid)

	logger = logger.With(
		zap.String("input_kind", in.Kind().String()),
		zap.Int("found", res.Found),
		zap.Int("unique", res.Unique()),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("invalid", res.Invalid),
	)

	if res.Empty() {
		b.metrics.RecordCleaning(ctx, metrics.OutcomeEmpty, duration)
		logger.Info("cleaning produced no addresses")
		b.reply(ctx, logger, tgbotapi.NewMessage(msg.Chat.ID, emptyResultReply))
		return
	}

	b.metrics.RecordCleaning(ctx, metrics.OutcomeOK, duration)
	logger.Info("cleaning finished", zap.Duration("duration", duration))
	if ce := logger.Check(zap.DebugLevel, "first cleaned address"); ce != nil {
		ce.Write(zap.String("email", logging.MaskEmail(res.Emails[0])))
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  resultFileName,
		Bytes: res.File(),
	})
	doc.Caption = res.Summary()
	doc.ReplyToMessageID = msg.MessageID
	b.reply(ctx, logger, doc)
}

// reply sends through the rate limiter. Send failures are logged, not
// retried: the user can resend, and the next update starts fresh.
func (b *Bot) reply(ctx context.Context, logger *zap.Logger, msg tgbotapi.Chattable) {
	if err := b.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("reply send failed", zap.Error(err))
	}
}

func decodeFailureReply(err error) string {
	if errors.Is(err, decode.ErrUnsupportedFormat) {
		return unsupportedReply
	}
	return unreadableReply
}
