package story

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"haven-planner/internal/llm"
	"haven-planner/internal/shared"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

//go:embed storyteller_prompt.md
var storytellerPrompt string

var promptTmpl = template.Must(template.New("Storyteller").Parse(storytellerPrompt))

// ErrEmptyStory is returned when a model answers with no usable text.
var ErrEmptyStory = errors.New("model returned an empty story")

const (
	defaultTheme     = "adventure"
	defaultLengthMin = 4
)

// UsageFunc receives the metadata of every model call, including failed ones.
type UsageFunc func(ctx context.Context, meta shared.CallMeta)

// LLMTeller asks a language model for a story and falls back to another
// Teller when the model fails or the breaker is open.
type LLMTeller struct {
	gen      llm.TextGenerator
	provider string
	breaker  *gobreaker.CircuitBreaker
	fallback Teller
	onUsage  UsageFunc
	logger   *zap.Logger
}

// NewLLMTeller wraps gen in a circuit breaker. onUsage may be nil.
func NewLLMTeller(gen llm.TextGenerator, provider string, fallback Teller, onUsage UsageFunc, logger *zap.Logger) *LLMTeller {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "story-" + provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &LLMTeller{
		gen:      gen,
		provider: provider,
		breaker:  cb,
		fallback: fallback,
		onUsage:  onUsage,
		logger:   logger,
	}
}

// Tell returns the model's story, or the fallback's story on any model error.
// Bilingual requests always go to the fallback.
func (t *LLMTeller) Tell(ctx context.Context, req Request) (Story, error) {
	if req.Bilingual {
		return t.fallback.Tell(ctx, req)
	}

	story, err := t.tellWithModel(ctx, req)
	if err != nil {
		t.logger.Warn("story model failed, using templates",
			zap.String("provider", t.provider),
			zap.Error(err))
		return t.fallback.Tell(ctx, req)
	}
	return story, nil
}

func (t *LLMTeller) tellWithModel(ctx context.Context, req Request) (Story, error) {
	prompt, err := buildStorytellerPrompt(req)
	if err != nil {
		return Story{}, err
	}

	start := time.Now()
	out, err := t.breaker.Execute(func() (any, error) {
		return t.gen.GenerateContent(ctx, prompt)
	})
	resp, _ := out.(llm.ContentResponse)
	rejected := errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
	if t.onUsage != nil && !rejected {
		t.onUsage(ctx, shared.NewCallMeta("story", t.provider, resp.Usage, time.Since(start), err != nil))
	}
	if err != nil {
		return Story{}, fmt.Errorf("failed to generate story: %w", err)
	}

	title, text := splitTitle(resp.Content)
	if text == "" {
		return Story{}, ErrEmptyStory
	}
	return Story{
		Title:    title,
		Text:     text,
		Language: storyLanguage(req.Child.Language),
		Source:   SourceLLM,
	}, nil
}

func buildStorytellerPrompt(req Request) (string, error) {
	lang := storyLanguage(req.Child.Language)
	data := struct {
		Child     string
		Age       float64
		Language  string
		Theme     string
		LengthMin int
	}{
		Child:     childName(req.Child.Name, lang),
		Age:       req.Child.AgeYears,
		Language:  map[string]string{langEnglish: "English", langDutch: "Dutch"}[lang],
		Theme:     req.Theme,
		LengthMin: req.LengthMin,
	}
	if data.Theme == "" {
		data.Theme = defaultTheme
	}
	if data.LengthMin <= 0 {
		data.LengthMin = defaultLengthMin
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build storyteller prompt: %w", err)
	}
	return buf.String(), nil
}

// splitTitle treats the first non-empty line as the title.
func splitTitle(content string) (string, string) {
	content = strings.TrimSpace(content)
	title, rest, found := strings.Cut(content, "\n")
	if !found {
		return "Story", title
	}
	title = strings.Trim(strings.TrimSpace(title), "#* ")
	return title, strings.TrimSpace(rest)
}
