package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tripColumns = `id, user_id, from_city, destination, number_of_days, budget, family_type,
	generated_at, itinerary, budget_breakdown, tips, travel`

// PostgresStore keeps trips in the trips table; nested values are stored as JSONB.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *Trip) error {
	itin, err := json.Marshal(t.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}
	tips, err := json.Marshal(t.Tips)
	if err != nil {
		return fmt.Errorf("encode tips: %w", err)
	}
	breakdown, err := nullableJSON(t.BudgetBreakdown, t.BudgetBreakdown == nil)
	if err != nil {
		return fmt.Errorf("encode budget breakdown: %w", err)
	}
	travel, err := nullableJSON(t.Travel, t.Travel == nil)
	if err != nil {
		return fmt.Errorf("encode travel: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.FromCity, t.Destination, t.NumberOfDays, t.Budget, t.FamilyType,
		t.GeneratedAt, string(itin), breakdown, string(tips), travel,
	)
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY generated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	return scanTrip(row)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindDuplicate(ctx context.Context, key DedupKey) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE destination = $1 AND from_city = $2 AND number_of_days = $3
		  AND budget = $4 AND family_type = $5
		ORDER BY generated_at DESC, id DESC
		LIMIT 1`,
		key.Destination, key.FromCity, key.NumberOfDays, key.Budget, key.FamilyType,
	)
	return scanTrip(row)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var itin, breakdown, tips, travel []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.FromCity, &t.Destination, &t.NumberOfDays, &t.Budget, &t.FamilyType,
		&t.GeneratedAt, &itin, &breakdown, &tips, &travel,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.GeneratedAt = t.GeneratedAt.UTC()
	if err := json.Unmarshal(itin, &t.Itinerary); err != nil {
		return nil, fmt.Errorf("decode itinerary of trip %s: %w", t.ID, err)
	}
	if err := json.Unmarshal(tips, &t.Tips); err != nil {
		return nil, fmt.Errorf("decode tips of trip %s: %w", t.ID, err)
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &t.BudgetBreakdown); err != nil {
			return nil, fmt.Errorf("decode budget breakdown of trip %s: %w", t.ID, err)
		}
	}
	if len(travel) > 0 {
		if err := json.Unmarshal(travel, &t.Travel); err != nil {
			return nil, fmt.Errorf("decode travel of trip %s: %w", t.ID, err)
		}
	}
	return &t, nil
}

// nullableJSON encodes v, or returns SQL NULL when isNil.
func nullableJSON(v any, isNil bool) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
