package activity

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed activities.yaml
var defaultActivitiesYAML []byte

// Modes an activity can be played in.
const (
	ModeSolo     = "solo"
	ModeTogether = "together"
)

// Energy levels of an activity.
const (
	EnergyCalm     = "calm"
	EnergyActive   = "active"
	EnergyLearning = "learning"
)

const defaultLanguage = "en"

// Activity is one catalog entry. Minutes is the inclusive [min, max] range it fits.
type Activity struct {
	Name    string  `yaml:"name" json:"name"`
	Minutes []int   `yaml:"minutes" json:"minutes"`
	AgeMin  float64 `yaml:"age_min" json:"age_min"`
	Energy  string  `yaml:"energy" json:"energy"`
}

func (a Activity) fits(minutes int, age float64) bool {
	return a.Minutes[0] <= minutes && minutes <= a.Minutes[1] && age >= a.AgeMin
}

// Catalog maps language -> mode -> activities.
type Catalog map[string]map[string][]Activity

// DefaultCatalog parses the activities embedded in the binary.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultActivitiesYAML)
}

// ParseCatalog decodes a YAML activity catalog. Every language needs a non-empty solo list.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}
	if _, ok := c[defaultLanguage]; !ok {
		return nil, errors.New("activity catalog has no english section")
	}
	for lang, modes := range c {
		if len(modes[ModeSolo]) == 0 {
			return nil, fmt.Errorf("activity catalog %q has no solo activities", lang)
		}
		for mode, list := range modes {
			for _, a := range list {
				if len(a.Minutes) != 2 {
					return nil, fmt.Errorf("activity %q (%s/%s) needs a [min, max] minute range", a.Name, lang, mode)
				}
				if a.Minutes[0] > a.Minutes[1] {
					return nil, fmt.Errorf("activity %q (%s/%s) has an inverted minute range", a.Name, lang, mode)
				}
			}
		}
	}
	return c, nil
}

func (c Catalog) language(lang string) map[string][]Activity {
	if modes, ok := c[lang]; ok {
		return modes
	}
	return c[defaultLanguage]
}
