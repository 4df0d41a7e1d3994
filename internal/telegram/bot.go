package telegram

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	requestTimeout = 30 * time.Second
	sessionTTL     = 10 * time.Minute
)

// Bot wraps the Telegram API and the meal planner application.
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *app.App
	sessions *SessionRepository
	cfg      *config.Config
	logger   *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, sessions *SessionRepository, logger *zap.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return &Bot{
		api:      bot,
		app:      application,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// WebhookHandler returns the handler Telegram posts updates to.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return b.handleWebhook
}

// RegisterHandlers registers the webhook handler on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if !b.cfg.IsAllowedTelegramUser(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.IsAllowedTelegramUser(update.Message.From.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("telegram_user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	text := strings.TrimSpace(msg.Text)
	switch {
	case msg.IsCommand() && msg.Command() == "metrics":
		b.handleMetricsRequest(ctx, msg)
	case msg.IsCommand() && (msg.Command() == "lista" || msg.Command() == "list"):
		b.handleListRequest(ctx, msg.Chat.ID, msg.CommandArguments(), false)
	case msg.IsCommand() && (msg.Command() == "odswiez" || msg.Command() == "refresh"):
		b.handleListRequest(ctx, msg.Chat.ID, msg.CommandArguments(), true)
	case msg.IsCommand() && (msg.Command() == "dodaj" || msg.Command() == "add"):
		b.handleAddRequest(ctx, msg)
	case msg.IsCommand() && (msg.Command() == "anuluj" || msg.Command() == "cancel"):
		b.handleCancel(ctx, msg)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(ctx, msg.Chat.ID, text)
	case !msg.IsCommand() && b.handleSessionReply(ctx, msg):
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, helpText))
	}
}

const helpText = `/lista [RRRR-MM-DD] - lista zakupów na tydzień
/odswiez [RRRR-MM-DD] - przelicz listę z planu posiłków
/dodaj [nazwa, ilość] - dopisz pozycję do listy
Wyślij link do przepisu, aby dodać go do książki kucharskiej.`

func (b *Bot) handleListRequest(ctx context.Context, chatID int64, arg string, refresh bool) {
	week := planner.WeekStart(time.Now())
	if arg = strings.TrimSpace(arg); arg != "" {
		parsed, err := planner.ParseWeek(arg)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "❌ Nieprawidłowa data tygodnia, użyj RRRR-MM-DD."))
			return
		}
		week = parsed
	}

	userID := b.cfg.DefaultUserID
	var err error
	if refresh {
		_, err = b.app.RefreshShoppingList(ctx, userID, week)
	}
	if err == nil {
		err = b.sendList(ctx, chatID, 0, week)
	}
	if err != nil {
		b.logger.Error("failed to show shopping list", zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "❌ Nie udało się przygotować listy zakupów."))
	}
}

// sendList sends the list as a new message, or edits messageID when non-zero.
func (b *Bot) sendList(ctx context.Context, chatID int64, messageID int, week time.Time) error {
	list, err := b.app.ShoppingList(ctx, b.cfg.DefaultUserID, week)
	if err != nil {
		return err
	}

	text := formatShoppingList(list)
	keyboard := listKeyboard(list)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		if keyboard != nil {
			edit.ReplyMarkup = keyboard
		}
		b.send(edit)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	b.send(msg)
	return nil
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	week, itemID, ok := parseToggleData(query.Data)
	if !ok || query.Message == nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
		return
	}

	item, err := b.app.ToggleItem(ctx, b.cfg.DefaultUserID, week, itemID)
	if err != nil {
		b.logger.Warn("failed to toggle item", zap.String("item_id", itemID), zap.Error(err))
		b.api.Request(tgbotapi.NewCallback(query.ID, "Ta pozycja już nie istnieje"))
		return
	}

	answer := "Odznaczono " + item.Name
	if item.Checked {
		answer = "Kupione: " + item.Name
	}
	b.api.Request(tgbotapi.NewCallback(query.ID, answer))

	if err := b.sendList(ctx, query.Message.Chat.ID, query.Message.MessageID, week); err != nil {
		b.logger.Error("failed to redraw shopping list", zap.Error(err))
	}
}

func sessionUserID(msg *tgbotapi.Message) string {
	return strconv.FormatInt(msg.From.ID, 10)
}

// parseItemText splits "Chleb, 2 szt" into a name and a free-text quantity.
func parseItemText(text string) (name, quantity string, ok bool) {
	name, quantity, _ = strings.Cut(text, ",")
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if name == "" {
		return "", "", false
	}
	return name, quantity, true
}

func (b *Bot) handleAddRequest(ctx context.Context, msg *tgbotapi.Message) {
	week := planner.WeekStart(time.Now())
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		b.addItem(ctx, msg.Chat.ID, week, args)
		return
	}

	_, err := b.sessions.Create(ctx, sessionUserID(msg), SessionAwaitingItem, "new",
		SessionContextData{Week: planner.FormatWeek(week)}, sessionTTL)
	if err != nil {
		b.logger.Error("failed to create session", zap.Error(err))
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Coś poszło nie tak, spróbuj ponownie."))
		return
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Co dopisać? Napisz nazwę i opcjonalnie ilość, np. „Chleb, 1 szt”. /anuluj przerywa."))
}

func (b *Bot) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.sessions.GetActive(ctx, sessionUserID(msg), time.Now())
	if err != nil {
		b.logger.Warn("failed to load session", zap.Error(err))
	}
	if session != nil {
		if err := b.sessions.Delete(ctx, session.ID); err != nil {
			b.logger.Warn("failed to delete session", zap.Int64("session_id", session.ID), zap.Error(err))
		}
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Anulowano."))
}

// handleSessionReply consumes msg when the user has a pending session. It
// reports whether the message was handled.
func (b *Bot) handleSessionReply(ctx context.Context, msg *tgbotapi.Message) bool {
	session, err := b.sessions.GetActive(ctx, sessionUserID(msg), time.Now())
	if err != nil {
		b.logger.Warn("failed to load session", zap.Error(err))
		return false
	}
	if session == nil || session.SessionType != SessionAwaitingItem {
		return false
	}

	data, err := session.GetContextData()
	if err != nil {
		b.logger.Warn("corrupted session data", zap.Int64("session_id", session.ID), zap.Error(err))
	}
	week, err := planner.ParseWeek(data.Week)
	if err != nil {
		week = planner.WeekStart(time.Now())
	}

	if b.addItem(ctx, msg.Chat.ID, week, msg.Text) {
		if err := b.sessions.Delete(ctx, session.ID); err != nil {
			b.logger.Warn("failed to delete session", zap.Int64("session_id", session.ID), zap.Error(err))
		}
	}
	return true
}

func (b *Bot) addItem(ctx context.Context, chatID int64, week time.Time, text string) bool {
	name, quantity, ok := parseItemText(text)
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "❌ Podaj nazwę produktu, np. „Chleb, 1 szt”."))
		return false
	}

	item, err := b.app.AddItem(ctx, b.cfg.DefaultUserID, week, name, quantity, "", "")
	if err != nil {
		b.logger.Error("failed to add item", zap.String("name", name), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "❌ Nie udało się dopisać pozycji."))
		return false
	}
	b.send(tgbotapi.NewMessage(chatID, "✅ Dopisano: "+item.Name))
	if err := b.sendList(ctx, chatID, 0, week); err != nil {
		b.logger.Error("failed to show shopping list", zap.Error(err))
	}
	return true
}

func (b *Bot) handleImportRequest(ctx context.Context, chatID int64, url string) {
	rec, err := b.app.ImportRecipe(ctx, url)
	if err != nil {
		b.logger.Warn("recipe import failed", zap.String("url", url), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "❌ Nie udało się zaimportować przepisu: "+err.Error()))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Zapisano przepis „%s” (%d składników).", rec.Title, len(rec.Ingredients))))
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ Tylko dla administratora."))
		return
	}

	usage, err := b.app.Metrics().GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Nie udało się pobrać metryk."))
		return
	}
	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	reply := tgbotapi.NewMessage(msg.Chat.ID, formatMetricsReport(usage, health))
	reply.ParseMode = tgbotapi.ModeHTML
	b.send(reply)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Error(err))
	}
}
