package activity

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"haven-planner/internal/household"
)

const (
	clockLayout     = "15:04"
	breakBetween    = 5 * time.Minute
	maxSuggestions  = 5
	supervisionNote = "Adult supervision required."
)

var (
	// ErrInvalidWakeTime is returned when the wake time is not HH:MM.
	ErrInvalidWakeTime = errors.New("wake time must use the HH:MM format")
	// ErrUnknownMode is returned for modes other than solo and together.
	ErrUnknownMode = errors.New("mode must be one of: solo together")
)

// Block is one entry of a day schedule. The first block only carries Time and Title.
type Block struct {
	Time  string     `json:"time,omitempty"`
	Title string     `json:"title,omitempty"`
	Start string     `json:"start,omitempty"`
	End   string     `json:"end,omitempty"`
	Plan  *BlockPlan `json:"plan,omitempty"`
}

// BlockPlan is the activity picked for a block.
type BlockPlan struct {
	Minutes  int    `json:"minutes"`
	Activity string `json:"activity"`
	Energy   string `json:"energy"`
}

// DaySchedule is the result of PlanDay.
type DaySchedule struct {
	Blocks []Block `json:"blocks"`
	Note   string  `json:"note"`
}

// Planner picks activities from a catalog.
type Planner struct {
	catalog Catalog
	intn    func(n int) int
}

// NewPlanner returns a Planner that picks randomly among matching activities.
func NewPlanner(catalog Catalog) *Planner {
	return &Planner{catalog: catalog, intn: rand.IntN}
}

// WithRand returns a copy of the planner drawing choices from intn.
func (p *Planner) WithRand(intn func(n int) int) *Planner {
	return &Planner{catalog: p.catalog, intn: intn}
}

// PlanDay lays out consecutive activity blocks starting at wake, with a five
// minute break between blocks.
func (p *Planner) PlanDay(child household.Child, wake string, blocks []int, focus string) (*DaySchedule, error) {
	t, err := time.Parse(clockLayout, wake)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWakeTime, wake)
	}

	schedule := &DaySchedule{
		Blocks: []Block{{Time: wake, Title: "Wake-up & check-in"}},
		Note:   supervisionNote,
	}
	for _, minutes := range blocks {
		end := t.Add(time.Duration(minutes) * time.Minute)
		a := p.pickForBlock(minutes, child, focus)
		schedule.Blocks = append(schedule.Blocks, Block{
			Start: t.Format(clockLayout),
			End:   end.Format(clockLayout),
			Plan:  &BlockPlan{Minutes: minutes, Activity: a.Name, Energy: a.Energy},
		})
		t = end.Add(breakBetween)
	}
	return schedule, nil
}

func (p *Planner) pickForBlock(minutes int, child household.Child, focus string) Activity {
	solo := p.catalog.language(child.Language)[ModeSolo]

	var candidates []Activity
	for _, a := range solo {
		if a.fits(minutes, child.AgeYears) {
			candidates = append(candidates, a)
		}
	}
	if focus != EnergyActive {
		var calmer []Activity
		for _, a := range candidates {
			if a.Energy != EnergyActive {
				calmer = append(calmer, a)
			}
		}
		if len(calmer) > 0 {
			candidates = calmer
		}
	}
	if len(candidates) == 0 {
		candidates = solo
	}
	return candidates[p.intn(len(candidates))]
}

// Suggest lists up to five activities for the given length and mode. When nothing
// fits, the start of the whole mode list is returned instead.
func (p *Planner) Suggest(child household.Child, minutes int, mode string) ([]Activity, error) {
	if mode != ModeSolo && mode != ModeTogether {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	pool := p.catalog.language(child.Language)[mode]

	var out []Activity
	for _, a := range pool {
		if a.fits(minutes, child.AgeYears) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		out = pool
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return append([]Activity{}, out...), nil
}
