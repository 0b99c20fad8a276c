// README: Saved trip entity: the originating request plus the generated itinerary.
package trip

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"wayfarer/internal/maps"
	"wayfarer/internal/modules/itinerary"
)

const DefaultUserID = "guest"

// Trip is a self-contained saved itinerary. It is never mutated after creation.
type Trip struct {
	ID              string                     `json:"id" bson:"_id"`
	UserID          string                     `json:"userId" bson:"userId"`
	FromCity        string                     `json:"fromCity" bson:"fromCity"`
	Destination     string                     `json:"destination" bson:"destination"`
	NumberOfDays    int                        `json:"numberOfDays" bson:"numberOfDays"`
	Budget          float64                    `json:"budget" bson:"budget"`
	FamilyType      string                     `json:"familyType" bson:"familyType"`
	GeneratedAt     time.Time                  `json:"generatedAt" bson:"generatedAt"`
	Itinerary       []itinerary.DayPlan        `json:"itinerary" bson:"itinerary"`
	BudgetBreakdown itinerary.BudgetBreakdown  `json:"budgetBreakdown" bson:"budgetBreakdown,omitempty"`
	Tips            []string                   `json:"tips" bson:"tips"`
	Travel          *maps.TravelEstimate       `json:"travel,omitempty" bson:"travel,omitempty"`
}

// UnmarshalJSON accepts numbers or numeric strings for numberOfDays and budget,
// the same leniency the generation request has.
func (t *Trip) UnmarshalJSON(b []byte) error {
	type plain Trip
	aux := struct {
		*plain
		NumberOfDays json.RawMessage `json:"numberOfDays"`
		Budget       json.RawMessage `json:"budget"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	days, present, ok := itinerary.LooseNumber(aux.NumberOfDays)
	if !ok || (present && days != math.Trunc(days)) {
		return fmt.Errorf("%w: numberOfDays must be a whole number", ErrInvalidTrip)
	}
	budget, _, ok := itinerary.LooseNumber(aux.Budget)
	if !ok {
		return fmt.Errorf("%w: budget must be a number", ErrInvalidTrip)
	}
	t.NumberOfDays = int(days)
	t.Budget = budget
	return nil
}

// DedupKey is the tuple two saves must share to count as the same trip.
type DedupKey struct {
	Destination  string
	FromCity     string
	NumberOfDays int
	Budget       float64
	FamilyType   string
}

func (t *Trip) DedupKey() DedupKey {
	return DedupKey{
		Destination:  t.Destination,
		FromCity:     t.FromCity,
		NumberOfDays: t.NumberOfDays,
		Budget:       t.Budget,
		FamilyType:   t.FamilyType,
	}
}

// applyDefaults fills the values a store assigns on creation.
func (t *Trip) applyDefaults(id string, now time.Time) {
	t.ID = id
	t.Destination = strings.TrimSpace(t.Destination)
	t.FromCity = strings.TrimSpace(t.FromCity)
	if strings.TrimSpace(t.UserID) == "" {
		t.UserID = DefaultUserID
	}
	if t.GeneratedAt.IsZero() {
		t.GeneratedAt = now
	}
	t.GeneratedAt = t.GeneratedAt.UTC().Truncate(time.Millisecond)
	if t.Itinerary == nil {
		t.Itinerary = []itinerary.DayPlan{}
	}
	for i := range t.Itinerary {
		if t.Itinerary[i].Activities == nil {
			t.Itinerary[i].Activities = []string{}
		}
	}
	if t.Tips == nil {
		t.Tips = []string{}
	}
}
