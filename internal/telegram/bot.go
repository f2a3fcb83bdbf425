package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/app"
	"glucoguard/internal/config"
	"glucoguard/internal/food"
)

const maxPhotoBytes = 8 << 20

// Bot wraps the Telegram API around one engine session.
type Bot struct {
	api        *tgbotapi.BotAPI
	app        *app.App
	cfg        *config.Config
	logger     hclog.Logger
	httpClient *http.Client
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, logger hclog.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized", "account", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", "description", resp.Description)

	return &Bot{
		api:        bot,
		app:        a,
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// HandleWebhook parses one update and processes it in the background.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", "error", err)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !b.allowed(msg.From.ID) {
		b.logger.Warn("unauthorized access attempt", "user_id", msg.From.ID, "username", msg.From.UserName)
		return
	}

	go b.processMessage(msg)
}

func (b *Bot) allowed(userID int64) bool {
	return slices.Contains(b.cfg.TelegramAllowedUserIDs, userID)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if len(msg.Photo) > 0 {
		b.handlePhoto(msg)
		return
	}
	b.send(msg.Chat.ID, b.reply(msg.From.ID, msg.Text))
}

func (b *Bot) send(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = "Markdown"
	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("failed to send message", "chat_id", chatID, "error", err)
	}
}

// handlePhoto scans the largest size of the photo and logs it.
func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	if !b.app.CanScan() {
		b.send(msg.Chat.ID, "📷 Food scanning is not set up. Use `/food name calories sugar` instead.")
		return
	}

	sent, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "🔍 Scanning your food..."))
	if err != nil {
		b.logger.Warn("failed to send initial reply", "error", err)
		return
	}

	photo := msg.Photo[len(msg.Photo)-1]
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var text string
	data, err := b.download(ctx, photo.FileID)
	if err == nil {
		var res app.ScanResult
		res, err = b.app.ScanFood(ctx, food.Image{MimeType: http.DetectContentType(data), Data: data})
		if err == nil {
			text = formatScan(res)
		}
	}
	if err != nil {
		b.logger.Error("food scan failed", "error", err)
		text = "❌ *Could not identify that food.* Try another photo."
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sent.MessageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download photo: status=%d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}

// parseCommand splits "/cmd@bot a b" into "cmd" and its arguments.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}
