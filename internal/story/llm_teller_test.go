package story

import (
	"context"
	"errors"
	"testing"

	"haven-planner/internal/household"
	"haven-planner/internal/llm"
	"haven-planner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	content string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (llm.ContentResponse, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return llm.ContentResponse{}, f.err
	}
	return llm.ContentResponse{
		Content: f.content,
		Usage:   shared.TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30, Model: "fake"},
	}, nil
}

func TestLLMTeller_UsesModel(t *testing.T) {
	gen := &fakeGenerator{content: "## The Kite\n\nAva flew a kite."}
	var metas []shared.CallMeta
	teller := NewLLMTeller(gen, "fake", newTestTeller(t), func(_ context.Context, m shared.CallMeta) {
		metas = append(metas, m)
	}, zap.NewNop())

	s, err := teller.Tell(context.Background(), Request{
		Child: household.Child{Name: "Ava", AgeYears: 5, Language: "nl"},
		Theme: "wind",
	})
	require.NoError(t, err)

	assert.Equal(t, "The Kite", s.Title)
	assert.Equal(t, "Ava flew a kite.", s.Text)
	assert.Equal(t, SourceLLM, s.Source)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Child name: Ava")
	assert.Contains(t, gen.prompts[0], "Language: Dutch")
	assert.Contains(t, gen.prompts[0], "Theme: wind")
	assert.Contains(t, gen.prompts[0], "about 4 minutes")

	require.Len(t, metas, 1)
	assert.Equal(t, "story", metas[0].Feature)
	assert.Equal(t, 30, metas[0].Usage.TotalTokens)
	assert.False(t, metas[0].Fallback)
}

func TestLLMTeller_FallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	var metas []shared.CallMeta
	teller := NewLLMTeller(gen, "fake", newTestTeller(t), func(_ context.Context, m shared.CallMeta) {
		metas = append(metas, m)
	}, zap.NewNop())

	req := Request{Child: household.Child{Name: "Ava", Language: "en"}}
	for range 5 {
		s, err := teller.Tell(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, SourceTemplate, s.Source)
		assert.Equal(t, "Ava went out.", s.Text)
	}

	// The breaker opens after three consecutive failures.
	assert.Equal(t, 3, gen.calls)
	assert.Len(t, metas, 3)
	assert.True(t, metas[0].Fallback)
}

func TestLLMTeller_EmptyContent(t *testing.T) {
	gen := &fakeGenerator{content: "   "}
	teller := NewLLMTeller(gen, "fake", newTestTeller(t), nil, zap.NewNop())

	s, err := teller.Tell(context.Background(), Request{Child: household.Child{Name: "Ava"}})
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, s.Source)
}

func TestLLMTeller_BilingualUsesTemplates(t *testing.T) {
	gen := &fakeGenerator{content: "Title\n\nText"}
	teller := NewLLMTeller(gen, "fake", newTestTeller(t), nil, zap.NewNop())

	s, err := teller.Tell(context.Background(), Request{Child: household.Child{Name: "Ava"}, Bilingual: true})
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, s.Source)
	assert.Zero(t, gen.calls)
}

func TestSplitTitle(t *testing.T) {
	title, text := splitTitle("**Moon Walk**\nFirst line.\nSecond line.")
	assert.Equal(t, "Moon Walk", title)
	assert.Equal(t, "First line.\nSecond line.", text)

	title, text = splitTitle("Just one line")
	assert.Equal(t, "Story", title)
	assert.Equal(t, "Just one line", text)
}
