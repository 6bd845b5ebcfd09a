package story

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"text/template"

	"haven-planner/internal/household"

	"gopkg.in/yaml.v3"
)

//go:embed seeds.yaml
var defaultSeedsYAML []byte

const (
	langEnglish = "en"
	langDutch   = "nl"

	// SourceTemplate and SourceLLM tell where a story came from.
	SourceTemplate = "template"
	SourceLLM      = "llm"
)

// Request describes the story to tell.
type Request struct {
	Child     household.Child
	Theme     string
	LengthMin int
	Bilingual bool
}

// Story is a told story.
type Story struct {
	Title    string `json:"title"`
	Text     string `json:"story"`
	Language string `json:"-"`
	Source   string `json:"-"`
}

// Teller tells stories.
type Teller interface {
	Tell(ctx context.Context, req Request) (Story, error)
}

// Seed is a story template; {{.Child}} is replaced by the child's name.
type Seed struct {
	Title    string `yaml:"title"`
	Template string `yaml:"template"`

	tmpl *template.Template
}

func (s Seed) render(child string) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, struct{ Child string }{Child: child}); err != nil {
		return "", fmt.Errorf("failed to render story %q: %w", s.Title, err)
	}
	return buf.String(), nil
}

// Seeds maps a language to its story templates.
type Seeds map[string][]Seed

// DefaultSeeds parses the story seeds embedded in the binary.
func DefaultSeeds() (Seeds, error) {
	return ParseSeeds(defaultSeedsYAML)
}

// ParseSeeds decodes YAML seeds. Both english and dutch need at least one seed.
func ParseSeeds(data []byte) (Seeds, error) {
	var seeds Seeds
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal story seeds: %w", err)
	}
	for _, lang := range []string{langEnglish, langDutch} {
		if len(seeds[lang]) == 0 {
			return nil, fmt.Errorf("story seeds for %q are missing", lang)
		}
	}
	for lang, list := range seeds {
		for i := range list {
			tmpl, err := template.New(list[i].Title).Option("missingkey=error").Parse(list[i].Template)
			if err != nil {
				return nil, fmt.Errorf("failed to parse story %q (%s): %w", list[i].Title, lang, err)
			}
			list[i].tmpl = tmpl
		}
	}
	return seeds, nil
}

// TemplateTeller picks a random seed in the child's language.
type TemplateTeller struct {
	seeds Seeds
	intn  func(n int) int
}

// NewTemplateTeller returns a TemplateTeller using math/rand.
func NewTemplateTeller(seeds Seeds) *TemplateTeller {
	return &TemplateTeller{seeds: seeds, intn: rand.IntN}
}

// WithRand returns a copy of the teller drawing choices from intn.
func (t *TemplateTeller) WithRand(intn func(n int) int) *TemplateTeller {
	return &TemplateTeller{seeds: t.seeds, intn: intn}
}

// Tell renders a seed. Bilingual stories get a second story from the other language.
func (t *TemplateTeller) Tell(_ context.Context, req Request) (Story, error) {
	lang := storyLanguage(req.Child.Language)
	name := childName(req.Child.Name, lang)

	seed := t.pick(lang)
	text, err := seed.render(name)
	if err != nil {
		return Story{}, err
	}

	if req.Bilingual {
		other, marker := langEnglish, "[English]"
		if lang == langEnglish {
			other, marker = langDutch, "[Nederlands]"
		}
		alt, err := t.pick(other).render(name)
		if err != nil {
			return Story{}, err
		}
		text += "\n\n" + marker + " " + alt
	}

	return Story{Title: seed.Title, Text: text, Language: lang, Source: SourceTemplate}, nil
}

func (t *TemplateTeller) pick(lang string) Seed {
	list := t.seeds[lang]
	return list[t.intn(len(list))]
}

func storyLanguage(lang string) string {
	if lang == langDutch {
		return langDutch
	}
	return langEnglish
}

func childName(name, lang string) string {
	if name != "" {
		return name
	}
	if lang == langDutch {
		return "je kind"
	}
	return "your child"
}
