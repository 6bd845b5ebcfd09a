package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"haven-planner/internal/app"
	"haven-planner/internal/config"
	"haven-planner/internal/household"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/story"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	usageDays      = 7
	processTimeout = time.Minute
)

const helpText = "👋 *Haven*\n\n" +
	"/mealplan `[age] [days] [budget]` - meal plan and grocery list\n" +
	"/story `[name]` - a short story\n" +
	"/metrics - usage report (admin)"

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers Telegram commands with the Haven use cases.
type Bot struct {
	api    Sender
	app    *app.App
	cfg    *config.Config
	logger *zap.Logger
}

// NewBot initializes the Telegram API client and sets the webhook.
func NewBot(cfg *config.Config, a *app.App, logger *zap.Logger) (*Bot, error) {
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("telegram webhook set", zap.String("description", resp.Description))

	return newBot(api, a, cfg, logger), nil
}

func newBot(api Sender, a *app.App, cfg *config.Config, logger *zap.Logger) *Bot {
	return &Bot{api: api, app: a, cfg: cfg, logger: logger}
}

// RegisterHandlers mounts the webhook and a health check on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("failed to parse update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !b.allowed(msg.From.ID) {
		b.logger.Warn("unauthorized telegram user",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		b.processMessage(ctx, msg)
	}()
}

func (b *Bot) allowed(userID int64) bool {
	return slices.Contains(b.cfg.TelegramAllowedUserIDs, userID) || (b.cfg.AdminTelegramID != 0 && userID == b.cfg.AdminTelegramID)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "mealplan":
		b.handleMealPlan(ctx, msg)
	case "story":
		b.handleStory(ctx, msg)
	case "metrics":
		b.handleMetricsRequest(ctx, msg)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

func (b *Bot) handleMealPlan(ctx context.Context, msg *tgbotapi.Message) {
	age, days, budget, err := parseMealPlanArgs(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s\n\nUsage: /mealplan `[age] [days] [budget]`", escapeMarkdown(err.Error())))
		return
	}

	plan := b.app.GenerateMealPlan(ctx, age, days, budget)
	planText, groceryText := formatMealPlanMarkdownParts(plan)
	b.reply(msg.Chat.ID, planText)
	b.reply(msg.Chat.ID, groceryText)
}

func (b *Bot) handleStory(ctx context.Context, msg *tgbotapi.Message) {
	child := household.Child{Name: strings.TrimSpace(msg.CommandArguments())}
	if strings.HasPrefix(msg.From.LanguageCode, "nl") {
		child.Language = "nl"
	}

	s, err := b.app.TellStory(ctx, story.Request{Child: child.WithDefaults()})
	if err != nil {
		b.logger.Error("failed to tell story", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Could not tell a story right now.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("📖 *%s*\n\n%s", escapeMarkdown(s.Title), escapeMarkdown(s.Text)))
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if b.cfg.AdminTelegramID == 0 || msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.app.LLMUsage(ctx, usageDays)
	if err != nil {
		b.logger.Error("failed to load usage", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	saved := b.app.TimeSaved()
	health := b.app.Health()

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("⏳ *Time Saved*\n")
	sb.WriteString(fmt.Sprintf("• %d min over %d sessions\n", saved.MinutesSavedTotal, saved.Sessions))

	sb.WriteString("\n🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d calls, %d fallbacks)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Fallbacks))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDirSize))

	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(m); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// parseMealPlanArgs reads "[age] [days] [budget]". Missing values fall back to
// the request defaults; days and budget are normalised later by the engine.
func parseMealPlanArgs(args string) (float64, int, string, error) {
	age, days, budget := mealplan.DefaultChildAge, mealplan.DefaultDays, string(mealplan.BudgetMid)
	fields := strings.Fields(args)
	if len(fields) > 3 {
		return 0, 0, "", fmt.Errorf("too many arguments")
	}
	if len(fields) > 0 {
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || v < 0 {
			return 0, 0, "", fmt.Errorf("age must be a number of years, got %q", fields[0])
		}
		age = v
	}
	if len(fields) > 1 {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, "", fmt.Errorf("days must be a whole number, got %q", fields[1])
		}
		days = v
	}
	if len(fields) > 2 {
		budget = fields[2]
	}
	return age, days, budget, nil
}

func formatMealPlanMarkdownParts(plan *mealplan.Plan) (string, string) {
	var pb strings.Builder
	pb.WriteString(fmt.Sprintf("📅 *Meal Plan* (%d days, %s budget)\n", plan.Days, plan.Budget))

	totalPrep := 0
	for _, dp := range plan.Plan {
		pb.WriteString(fmt.Sprintf("\n*Day %d*\n", dp.Day))
		for _, slot := range mealplan.Slots {
			meal := dp.Meal(slot)
			totalPrep += meal.PrepTimeMin
			pb.WriteString(fmt.Sprintf("• %s: %s (%d min)\n", slotTitle(slot), escapeMarkdown(meal.Name), meal.PrepTimeMin))
		}
	}
	pb.WriteString(fmt.Sprintf("\n⏱ *Total Prep:* %d mins", totalPrep))

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n\n")
	for _, name := range mealplan.SortedIngredients(plan.GroceryList) {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", escapeMarkdown(name), mealplan.FormatQuantity(plan.GroceryList[name])))
	}

	return pb.String(), sb.String()
}

func slotTitle(s mealplan.Slot) string {
	name := string(s)
	return strings.ToUpper(name[:1]) + name[1:]
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
