package story

import (
	"context"
	"strings"
	"testing"

	"haven-planner/internal/household"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeeds = `
en:
  - {title: First, template: "{{.Child}} went out."}
  - {title: Second, template: "{{.Child}} stayed in."}
nl:
  - {title: Eerste, template: "{{.Child}} ging naar buiten."}
`

func newTestTeller(t *testing.T) *TemplateTeller {
	t.Helper()
	seeds, err := ParseSeeds([]byte(testSeeds))
	require.NoError(t, err)
	return NewTemplateTeller(seeds).WithRand(func(n int) int { return 0 })
}

func TestTemplateTeller_Tell(t *testing.T) {
	teller := newTestTeller(t)
	ctx := context.Background()

	t.Run("English", func(t *testing.T) {
		s, err := teller.Tell(ctx, Request{Child: household.Child{Name: "Ava", Language: "en"}})
		require.NoError(t, err)
		assert.Equal(t, "First", s.Title)
		assert.Equal(t, "Ava went out.", s.Text)
		assert.Equal(t, SourceTemplate, s.Source)
	})

	t.Run("DefaultNames", func(t *testing.T) {
		s, err := teller.Tell(ctx, Request{Child: household.Child{Language: "en"}})
		require.NoError(t, err)
		assert.Equal(t, "your child went out.", s.Text)

		s, err = teller.Tell(ctx, Request{Child: household.Child{Language: "nl"}})
		require.NoError(t, err)
		assert.Equal(t, "je kind ging naar buiten.", s.Text)
	})

	t.Run("UnknownLanguageIsEnglish", func(t *testing.T) {
		s, err := teller.Tell(ctx, Request{Child: household.Child{Name: "Léa", Language: "fr"}})
		require.NoError(t, err)
		assert.Equal(t, "en", s.Language)
		assert.Equal(t, "Léa went out.", s.Text)
	})

	t.Run("BilingualEnglish", func(t *testing.T) {
		s, err := teller.Tell(ctx, Request{Child: household.Child{Name: "Ava", Language: "en"}, Bilingual: true})
		require.NoError(t, err)
		assert.Equal(t, "Ava went out.\n\n[Nederlands] Ava ging naar buiten.", s.Text)
	})

	t.Run("BilingualDutch", func(t *testing.T) {
		s, err := teller.Tell(ctx, Request{Child: household.Child{Name: "Sem", Language: "nl"}, Bilingual: true})
		require.NoError(t, err)
		assert.Equal(t, "Eerste", s.Title)
		assert.Equal(t, "Sem ging naar buiten.\n\n[English] Sem went out.", s.Text)
	})
}

func TestParseSeeds(t *testing.T) {
	_, err := ParseSeeds([]byte("en:\n  - {title: A, template: x}\n"))
	assert.Error(t, err, "dutch seeds are required")

	_, err = ParseSeeds([]byte("en:\n  - {title: A, template: \"{{.Child\"}\nnl:\n  - {title: B, template: y}\n"))
	assert.Error(t, err)

	seeds, err := DefaultSeeds()
	require.NoError(t, err)
	for lang, list := range seeds {
		for _, s := range list {
			text, err := s.render("Ava")
			require.NoError(t, err, "%s/%s", lang, s.Title)
			assert.True(t, strings.Contains(text, "Ava"), "%s/%s does not mention the child", lang, s.Title)
		}
	}
}
