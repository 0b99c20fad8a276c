// README: Itinerary domain types: the trip request, day plans, budget breakdown, and generation result.
package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wayfarer/internal/maps"
)

type FamilyType string

const (
	FamilySolo   FamilyType = "solo"
	FamilyCouple FamilyType = "couple"
	FamilyKids   FamilyType = "family-kids"
	FamilyElder  FamilyType = "family-elder"
)

// Description is the wording used when talking to the model.
func (f FamilyType) Description() string {
	switch f {
	case FamilySolo:
		return "solo traveler"
	case FamilyCouple:
		return "couple"
	case FamilyKids:
		return "family with children"
	case FamilyElder:
		return "family with elderly members"
	default:
		return string(f)
	}
}

type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

func (i Intensity) Valid() bool {
	return i == IntensityLow || i == IntensityMedium || i == IntensityHigh
}

// TripRequest is the form a traveler submits before generation.
type TripRequest struct {
	FromCity     string     `json:"fromCity" validate:"required"`
	Destination  string     `json:"destination" validate:"required"`
	NumberOfDays int        `json:"numberOfDays" validate:"required,gt=0"`
	Budget       float64    `json:"budget" validate:"required,gt=0"`
	FamilyType   FamilyType `json:"familyType" validate:"required,oneof=solo couple family-kids family-elder"`

	// fields that were present but not usable as numbers
	invalid []string
}

// UnmarshalJSON accepts numbers or numeric strings for numberOfDays and budget.
func (r *TripRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		FromCity     string          `json:"fromCity"`
		Destination  string          `json:"destination"`
		NumberOfDays json.RawMessage `json:"numberOfDays"`
		Budget       json.RawMessage `json:"budget"`
		FamilyType   string          `json:"familyType"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = TripRequest{
		FromCity:    strings.TrimSpace(raw.FromCity),
		Destination: strings.TrimSpace(raw.Destination),
		FamilyType:  FamilyType(strings.TrimSpace(raw.FamilyType)),
	}

	if days, present, ok := LooseNumber(raw.NumberOfDays); !ok {
		r.invalid = append(r.invalid, "numberOfDays")
	} else if present {
		if days != math.Trunc(days) {
			r.invalid = append(r.invalid, "numberOfDays")
		} else {
			r.NumberOfDays = int(days)
		}
	}
	if budget, _, ok := LooseNumber(raw.Budget); !ok {
		r.invalid = append(r.invalid, "budget")
	} else {
		r.Budget = budget
	}
	return nil
}

// LooseNumber accepts a JSON number or numeric string. It reports the value, whether anything was supplied, and whether it parsed.
func LooseNumber(raw json.RawMessage) (float64, bool, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, true, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, true, false
	}
	return n, true, true
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day             int       `json:"day" bson:"day"`
	Title           string    `json:"title" bson:"title"`
	Activities      []string  `json:"activities" bson:"activities"`
	TravelIntensity Intensity `json:"travelIntensity" bson:"travelIntensity"`
	EstimatedCost   float64   `json:"estimatedCost" bson:"estimatedCost"`
}

// BudgetBreakdown is the model's breakdown object, passed through unmodified.
// Keys and value types are whatever the model returned; totals are not reconciled with day costs.
type BudgetBreakdown map[string]any

// Itinerary is the generation result.
type Itinerary struct {
	Itinerary       []DayPlan            `json:"itinerary"`
	BudgetBreakdown BudgetBreakdown      `json:"budgetBreakdown"`
	Tips            []string             `json:"tips"`
	Travel          *maps.TravelEstimate `json:"travel,omitempty"`
}

// TotalEstimatedCost sums the per-day estimates.
func (it *Itinerary) TotalEstimatedCost() float64 {
	var total float64
	for _, d := range it.Itinerary {
		total += d.EstimatedCost
	}
	return total
}

func (r TripRequest) String() string {
	return fmt.Sprintf("%s -> %s, %d days, budget %s, %s",
		r.FromCity, r.Destination, r.NumberOfDays, formatAmount(r.Budget), r.FamilyType)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
