package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"haven-planner/internal/activity"
	"haven-planner/internal/household"
)

// childInput is the child embedded in planning requests. Unlike a stored
// profile the name may be empty and any language falls back to english.
type childInput struct {
	Name        string  `json:"name" validate:"max=64"`
	AgeYears    float64 `json:"age_years" validate:"gte=0,lte=12"`
	Language    string  `json:"language"`
	Temperament string  `json:"temperament"`
}

func (c childInput) toChild() household.Child {
	return household.Child{
		Name:        c.Name,
		AgeYears:    c.AgeYears,
		Language:    c.Language,
		Temperament: c.Temperament,
	}.WithDefaults()
}

type planDayRequest struct {
	Child          childInput `json:"child"`
	WakeTime       string     `json:"wake_time" validate:"required,datetime=15:04"`
	AvailableBlock []int      `json:"available_blocks_min" validate:"max=24,dive,gte=1,lte=240"`
	Focus          string     `json:"focus" validate:"oneof=calm active learning"`
}

type suggestRequest struct {
	Child   childInput `json:"child"`
	Minutes int        `json:"minutes" validate:"gte=1,lte=240"`
	Mode    string     `json:"mode" validate:"oneof=solo together"`
}

type storyRequest struct {
	Child     childInput `json:"child"`
	Theme     string     `json:"theme" validate:"max=64"`
	LengthMin int        `json:"length_min" validate:"gte=1,lte=30"`
	Bilingual bool       `json:"bilingual"`
}

type sessionRequest struct {
	Child       childInput `json:"child"`
	DurationMin int        `json:"duration_min" validate:"gte=1,lte=480"`
	Goal        string     `json:"goal" validate:"max=32"`
}

// mealPlanRequest is normalised by the engine rather than validated.
type mealPlanRequest struct {
	Child struct {
		AgeYears *looseFloat `json:"age_years"`
	} `json:"child"`
	Days   *looseInt `json:"days"`
	Budget string    `json:"budget"`
}

// looseFloat accepts a JSON number or a string holding one.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %s", b)
	}
	*f = looseFloat(v)
	return nil
}

// looseInt is a looseFloat with no fractional part, so 1e3 and "5" are
// accepted while 2.5 is not. Values beyond the int32 range are saturated.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var f looseFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	v := float64(f)
	if v != math.Trunc(v) {
		return fmt.Errorf("not a whole number: %s", b)
	}
	*n = looseInt(max(min(v, math.MaxInt32), math.MinInt32))
	return nil
}

type groceriesRequest struct {
	GroceryList map[string]float64 `json:"grocery_list"`
}

type icsRequest struct {
	Child childInput       `json:"child"`
	Date  string           `json:"date" validate:"required,datetime=2006-01-02"`
	Plan  []activity.Block `json:"plan"`
}
