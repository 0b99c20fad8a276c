package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service adds id assignment, defaults and the optional dedup policy on top of a Store.
type Service struct {
	store  Store
	dedup  bool
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store Store, dedup bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		dedup:  dedup,
		logger: logger,
		now:    time.Now,
		newID:  newTripID,
	}
}

// newTripID mints a uuid v7; ids sort in creation order.
func newTripID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Create stores t and reports whether an existing trip was returned instead.
func (s *Service) Create(ctx context.Context, t Trip) (*Trip, bool, error) {
	if strings.TrimSpace(t.Destination) == "" {
		return nil, false, fmt.Errorf("%w: destination is required", ErrInvalidTrip)
	}
	t.applyDefaults(s.newID(), s.now())

	if s.dedup {
		existing, err := s.store.FindDuplicate(ctx, t.DedupKey())
		switch {
		case err == nil:
			s.logger.Info("trip already saved", zap.String("trip_id", existing.ID))
			return existing, true, nil
		case !errors.Is(err, ErrNotFound):
			return nil, false, err
		}
	}

	if err := s.store.Create(ctx, &t); err != nil {
		return nil, false, err
	}
	s.logger.Info("trip saved",
		zap.String("trip_id", t.ID),
		zap.String("destination", t.Destination),
		zap.Int("days", t.NumberOfDays))
	return &t, false, nil
}

func (s *Service) List(ctx context.Context) ([]Trip, error) {
	trips, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []Trip{}
	}
	return trips, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("trip deleted", zap.String("trip_id", id))
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
