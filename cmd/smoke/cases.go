// README: Smoke checks: health, trip CRUD, 404s, generation, store connectivity and a short load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
	mongo *mongo.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg: cfg,
		// Generation may retry with backoff for well over a minute.
		httpc: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer func() { _ = r.redis.Close() }()
	}
	if r.cfg.MongoURI != "" {
		if client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.cfg.MongoURI)); err == nil {
			r.mongo = client
			defer func() { _ = client.Disconnect(context.Background()) }()
		}
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func summarize(results []Result) map[string]int {
	counts := map[string]int{}
	for _, res := range results {
		counts[res.Status]++
	}
	return counts
}

var sampleRequest = map[string]any{
	"fromCity":     "Pune",
	"destination":  "Goa",
	"numberOfDays": 2,
	"budget":       15000,
	"familyType":   "couple",
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{Name: "Store: Postgres connect", Run: pingCase(func(r *Runner) func(context.Context) error {
			if r.db == nil {
				return nil
			}
			return r.db.Ping
		})},
		{Name: "Store: Postgres trips table", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: StatusSkip, Note: "dsn not set"}
			}
			var exists bool
			err := r.db.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", "trips",
			).Scan(&exists)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if !exists {
				return Result{Status: StatusFail, Note: "missing table: trips"}
			}
			return Result{Status: StatusPass}
		}},
		{Name: "Store: Redis connect", Run: pingCase(func(r *Runner) func(context.Context) error {
			if r.redis == nil {
				return nil
			}
			return func(ctx context.Context) error { return r.redis.Ping(ctx).Err() }
		})},
		{Name: "Store: MongoDB connect", Run: pingCase(func(r *Runner) func(context.Context) error {
			if r.mongo == nil {
				return nil
			}
			return func(ctx context.Context) error { return r.mongo.Ping(ctx, nil) }
		})},

		httpCase("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCase("API: unknown route -> 404", http.MethodGet, base+"/api/does-not-exist", nil, []int{404}, nil),
		httpCase("Trips: unknown id -> 404", http.MethodGet, base+"/api/trips/00000000-0000-0000-0000-000000000000", nil, []int{404}, nil),
		httpCase("Trips: delete unknown id -> 404", http.MethodDelete, base+"/api/trips/00000000-0000-0000-0000-000000000000", nil, []int{404}, nil),
		{Name: "Trips: create/get/list/delete round trip", Run: func(ctx context.Context, r *Runner) Result {
			return tripRoundTrip(ctx, r, base)
		}},

		httpCase("Itinerary: missing fields -> 400", http.MethodPost, base+"/api/generate-itinerary", map[string]any{"destination": "Goa"}, []int{400}, nil),
		// Provider failures (quota, overload, missing key) are reported as pending, not failures.
		httpCase("Itinerary: generate", http.MethodPost, base+"/api/generate-itinerary", sampleRequest, []int{200}, []int{401, 429, 500, 503, 504}),
		httpCase("Itinerary: plan-trip alias", http.MethodPost, base+"/api/plan-trip", sampleRequest, []int{200}, []int{401, 429, 500, 503, 504}),

		{Name: "Perf: list trips throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, http.MethodGet, base+"/api/trips")
		}},
	}
}

func pingCase(target func(r *Runner) func(context.Context) error) func(ctx context.Context, r *Runner) Result {
	return func(ctx context.Context, r *Runner) Result {
		ping := target(r)
		if ping == nil {
			return Result{Status: StatusSkip, Note: "not configured"}
		}
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		start := time.Now()
		if err := ping(ctx); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		return Result{Status: StatusPass, Latency: time.Since(start)}
	}
}

func httpCase(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, _, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			note := fmt.Sprintf("status=%d", status)

			switch {
			case slices.Contains(okStatuses, status):
				return Result{Status: StatusPass, Latency: latency, Note: note}
			case slices.Contains(pendingStatuses, status):
				return Result{Status: StatusPending, Latency: latency, Note: note}
			default:
				return Result{Status: StatusFail, Latency: latency, Note: note}
			}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func tripRoundTrip(ctx context.Context, r *Runner, base string) Result {
	start := time.Now()
	payload := map[string]any{
		"fromCity":     "Smoke",
		"destination":  fmt.Sprintf("Smoke Test %d", time.Now().UnixNano()),
		"numberOfDays": 1,
		"budget":       1000,
		"familyType":   "solo",
		"itinerary": []map[string]any{
			{"day": 1, "title": "Day 1", "activities": []string{"Check in"}, "travelIntensity": "Low", "estimatedCost": 1000},
		},
		"tips": []string{},
	}

	status, body, err := r.do(ctx, http.MethodPost, base+"/api/trips", payload)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: StatusFail, Note: fmt.Sprintf("create status=%d", status)}
	}
	var created struct {
		Trip struct {
			ID string `json:"id"`
		} `json:"trip"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Trip.ID == "" {
		return Result{Status: StatusFail, Note: "create response has no trip id"}
	}
	id := created.Trip.ID

	steps := []struct {
		method string
		url    string
		want   int
	}{
		{http.MethodGet, base + "/api/trips/" + id, http.StatusOK},
		{http.MethodDelete, base + "/api/trips/" + id, http.StatusOK},
		{http.MethodGet, base + "/api/trips/" + id, http.StatusNotFound},
	}

	status, body, err = r.do(ctx, http.MethodGet, base+"/api/trips", nil)
	if err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("list status=%d err=%v", status, err)}
	}
	var listed []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &listed); err != nil || len(listed) == 0 || listed[0].ID != id {
		return Result{Status: StatusFail, Note: "new trip is not first in the list"}
	}

	for _, s := range steps {
		status, _, err := r.do(ctx, s.method, s.url, nil)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if status != s.want {
			return Result{Status: StatusFail, Note: fmt.Sprintf("%s %s status=%d want=%d", s.method, s.url, status, s.want)}
		}
	}
	return Result{Status: StatusPass, Latency: time.Since(start), Note: "id=" + id}
}

func perfLoad(ctx context.Context, r *Runner, method, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, err := r.do(ctx, method, url, nil)
				if err != nil || status >= 500 {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
