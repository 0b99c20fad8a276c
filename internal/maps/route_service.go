package maps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"googlemaps.github.io/maps"
)

// ErrNoRoute is returned when Directions finds no drivable route.
var ErrNoRoute = errors.New("maps: no route found")

// TravelEstimate summarizes the road trip between origin and destination.
type TravelEstimate struct {
	Distance        string `json:"distance" bson:"distance"`
	Duration        string `json:"duration" bson:"duration"`
	DurationMinutes int    `json:"durationMinutes" bson:"durationMinutes"`
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// GetTravelEstimate returns the driving distance and duration between two places.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination string) (*TravelEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return &TravelEstimate{
		Distance:        leg.Distance.HumanReadable,
		Duration:        formatDuration(leg.Duration),
		DurationMinutes: int(math.Round(leg.Duration.Minutes())),
	}, nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h, m := int(d.Hours()), int(d.Minutes())%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}
