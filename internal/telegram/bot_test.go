package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"haven-planner/internal/app"
	"haven-planner/internal/config"
	"haven-planner/internal/mealplan"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminID = 42

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:           filepath.Join(dir, "haven.db"),
		DataDir:                dir,
		RetentionDays:          180,
		LocalOnly:              true,
		JWTSecret:              "test",
		TelegramAllowedUserIDs: []int64{7},
		AdminTelegramID:        adminID,
	}
	a, cleanup, err := app.Bootstrap(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	sender := &fakeSender{}
	return newBot(sender, a, cfg, zap.NewNop()), sender
}

func command(from int64, text string) *tgbotapi.Message {
	cmd := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(cmd)},
		},
	}
}

func TestParseMealPlanArgs(t *testing.T) {
	tests := []struct {
		args    string
		age     float64
		days    int
		budget  string
		wantErr bool
	}{
		{args: "", age: 4, days: 7, budget: "mid"},
		{args: "2", age: 2, days: 7, budget: "mid"},
		{args: "6.5 3 high", age: 6.5, days: 3, budget: "high"},
		{args: "3 30", age: 3, days: 30, budget: "mid"},
		{args: "toddler", wantErr: true},
		{args: "3 week", wantErr: true},
		{args: "1 2 low extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			age, days, budget, err := parseMealPlanArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.age, age)
			assert.Equal(t, tt.days, days)
			assert.Equal(t, tt.budget, budget)
		})
	}
}

func TestFormatMealPlanMarkdownParts(t *testing.T) {
	plan := &mealplan.Plan{
		Days:   1,
		Budget: mealplan.BudgetLow,
		Plan: []mealplan.DayPlan{{
			Day:       1,
			Breakfast: mealplan.AssembledRecipe{Name: "Oats", PrepTimeMin: 10},
			Lunch:     mealplan.AssembledRecipe{Name: "Wrap_2", PrepTimeMin: 5},
			Snack:     mealplan.AssembledRecipe{Name: "Fruit", PrepTimeMin: 0},
			Dinner:    mealplan.AssembledRecipe{Name: "Pasta", PrepTimeMin: 20},
		}},
		GroceryList: mealplan.GroceryList{"milk (ml)": 250, "apple": 1.5},
	}

	planOutput, groceryOutput := formatMealPlanMarkdownParts(plan)

	assert.Contains(t, planOutput, "📅 *Meal Plan* (1 days, low budget)")
	assert.Contains(t, planOutput, "*Day 1*\n• Breakfast: Oats (10 min)\n")
	assert.Contains(t, planOutput, `• Lunch: Wrap\_2 (5 min)`)
	assert.Contains(t, planOutput, "⏱ *Total Prep:* 35 mins")

	assert.Equal(t, "🛒 *Grocery List*\n\n• apple: 1.5\n• milk (ml): 250\n", groceryOutput)
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("MealPlan", func(t *testing.T) {
		bot, sender := newTestBot(t)
		bot.processMessage(ctx, command(7, "/mealplan 2 3 high"))

		texts := sender.texts()
		require.Len(t, texts, 2)
		assert.Contains(t, texts[0], "(3 days, high budget)")
		assert.True(t, strings.HasPrefix(texts[1], "🛒 *Grocery List*"))
		assert.Equal(t, tgbotapi.ModeMarkdown, sender.sent[0].ParseMode)
	})

	t.Run("MealPlanBadArgs", func(t *testing.T) {
		bot, sender := newTestBot(t)
		bot.processMessage(ctx, command(7, "/mealplan soon"))

		texts := sender.texts()
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "Usage: /mealplan")
	})

	t.Run("Story", func(t *testing.T) {
		bot, sender := newTestBot(t)
		bot.processMessage(ctx, command(7, "/story Ava"))

		texts := sender.texts()
		require.Len(t, texts, 1)
		assert.True(t, strings.HasPrefix(texts[0], "📖 *"))
		assert.Contains(t, texts[0], "Ava")
	})

	t.Run("MetricsAdminOnly", func(t *testing.T) {
		bot, sender := newTestBot(t)
		bot.processMessage(ctx, command(7, "/metrics"))
		bot.processMessage(ctx, command(adminID, "/metrics"))

		texts := sender.texts()
		require.Len(t, texts, 2)
		assert.Contains(t, texts[0], "Admin only")
		assert.Contains(t, texts[1], "📊 *Usage & Health Report*")
		assert.Contains(t, texts[1], "_No data yet_")
	})

	t.Run("Help", func(t *testing.T) {
		bot, sender := newTestBot(t)
		bot.processMessage(ctx, &tgbotapi.Message{From: &tgbotapi.User{ID: 7}, Chat: &tgbotapi.Chat{ID: 7}, Text: "hello"})

		texts := sender.texts()
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "/mealplan")
	})
}

func TestAllowed(t *testing.T) {
	bot, _ := newTestBot(t)
	assert.True(t, bot.allowed(7))
	assert.True(t, bot.allowed(adminID))
	assert.False(t, bot.allowed(99))
}
