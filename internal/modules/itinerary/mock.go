package itinerary

import (
	"context"
	"fmt"
	"math"
)

var mockActivities = map[FamilyType][]string{
	FamilySolo:   {"Explore local markets", "Visit historical sites", "Try local cuisine", "Photography tour"},
	FamilyCouple: {"Romantic dinner", "Scenic walk", "Couple spa session", "Sunset cruise"},
	FamilyKids:   {"Amusement park", "Zoo visit", "Beach activities", "Interactive museum"},
	FamilyElder:  {"Gentle city tour", "Historical sites", "Comfortable restaurant", "Scenic viewpoints"},
}

var mockTips = []string{
	"This plan was generated offline; check opening hours before you go.",
	"Keep some of the daily budget aside for transport and snacks.",
}

// MockPlanner builds a deterministic itinerary without calling any model.
type MockPlanner struct{}

func (MockPlanner) Plan(_ context.Context, req TripRequest) (*Itinerary, error) {
	return MockItinerary(req), nil
}

// MockItinerary never fails; requests are validated beforehand.
func MockItinerary(req TripRequest) *Itinerary {
	activities, ok := mockActivities[req.FamilyType]
	if !ok {
		activities = mockActivities[FamilySolo]
	}

	days := max(req.NumberOfDays, 1)
	cost := math.Round(req.Budget / float64(days))

	it := &Itinerary{
		Itinerary: make([]DayPlan, 0, days),
		Tips:      append([]string(nil), mockTips...),
	}
	for day := 1; day <= days; day++ {
		count := 4
		switch day {
		case 1:
			count = 3
		case days:
			count = 2
		}
		count = min(count, len(activities))

		it.Itinerary = append(it.Itinerary, DayPlan{
			Day:             day,
			Title:           fmt.Sprintf("Day %d", day),
			Activities:      append([]string(nil), activities[:count]...),
			TravelIntensity: intensityFor(count),
			EstimatedCost:   cost,
		})
	}
	return it
}

func intensityFor(activityCount int) Intensity {
	switch {
	case activityCount <= 2:
		return IntensityLow
	case activityCount <= 4:
		return IntensityMedium
	default:
		return IntensityHigh
	}
}
