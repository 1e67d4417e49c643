package refdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/models"
	"github.com/hawkbud003/dsahboard/internal/observability"
)

// AuthContext identifies the caller to the aggregator: loads happen only once
// a token is available, and the user list is fetched only for admins.
type AuthContext struct {
	Token    string
	UserType string
}

// IsAdmin reports whether the caller has the admin role.
func (a AuthContext) IsAdmin() bool { return a.UserType == "admin" }

// Client is the set of backend fetches the aggregator fans out. Implemented
// by backend.Client.
type Client interface {
	Ages(ctx context.Context) ([]models.SelectOption, error)
	Devices(ctx context.Context) ([]models.SelectOption, error)
	Environments(ctx context.Context) ([]models.SelectOption, error)
	Exchanges(ctx context.Context) ([]models.SelectOption, error)
	Languages(ctx context.Context) ([]models.SelectOption, error)
	Carriers(ctx context.Context) ([]models.SelectOption, error)
	DevicePrices(ctx context.Context) ([]models.SelectOption, error)
	BuyTypes(ctx context.Context) ([]models.SelectOption, error)
	Viewability(ctx context.Context) ([]models.SelectOption, error)
	BrandSafety(ctx context.Context) ([]models.SelectOption, error)
	InterestCategories(ctx context.Context) ([]models.SelectOption, error)
	Locations(ctx context.Context) ([]models.Location, error)
	Interests(ctx context.Context, query string) ([]models.Interest, error)
	Impressions(ctx context.Context) (models.ImpressionData, error)
	Users(ctx context.Context) ([]models.User, error)
	Creatives(ctx context.Context) ([]models.Creative, error)
}

// Aggregator fetches all reference lists in one concurrent batch and exposes
// the latest complete snapshot. A failed batch leaves the previous snapshot
// (or the empty default) in place.
type Aggregator struct {
	client  Client
	logger  *zap.Logger
	metrics observability.MetricsRegistry

	mu          sync.RWMutex
	snap        *Snapshot
	loadedToken string
	loading     bool
	subs        []func(*Snapshot)
}

// New creates an Aggregator holding the empty default snapshot.
func New(client Client, logger *zap.Logger, metrics observability.MetricsRegistry) *Aggregator {
	return &Aggregator{
		client:  client,
		logger:  logger,
		metrics: metrics,
		snap:    EmptySnapshot(),
	}
}

// Snapshot returns the current snapshot. Never nil.
func (a *Aggregator) Snapshot() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Subscribe registers an observer invoked with each new snapshot.
func (a *Aggregator) Subscribe(fn func(*Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, fn)
}

// EnsureLoaded loads the snapshot once per auth token. Without a token it is
// a no-op; with a token already loaded, or a load in flight, it is a no-op.
// This is the dedupe layer for callers that fire on every auth change.
func (a *Aggregator) EnsureLoaded(ctx context.Context, auth AuthContext) error {
	if auth.Token == "" {
		return nil
	}
	a.mu.Lock()
	if a.loading || a.loadedToken == auth.Token {
		a.mu.Unlock()
		return nil
	}
	a.loading = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.loading = false
		a.mu.Unlock()
	}()

	_, err := a.Load(ctx, auth)
	return err
}

// Load fetches every reference list concurrently and installs the result as
// the new snapshot. The join is all-or-nothing: any failed fetch fails the
// whole load and the previous snapshot stays in place.
func (a *Aggregator) Load(ctx context.Context, auth AuthContext) (*Snapshot, error) {
	start := time.Now()
	next := &Snapshot{}

	fetches := map[string]func(context.Context) error{
		"age": func(ctx context.Context) error {
			var err error
			next.Ages, err = a.client.Ages(ctx)
			return err
		},
		"device": func(ctx context.Context) error {
			var err error
			next.Devices, err = a.client.Devices(ctx)
			return err
		},
		"environment": func(ctx context.Context) error {
			var err error
			next.Environments, err = a.client.Environments(ctx)
			return err
		},
		"exchange": func(ctx context.Context) error {
			var err error
			next.Exchanges, err = a.client.Exchanges(ctx)
			return err
		},
		"language": func(ctx context.Context) error {
			var err error
			next.Languages, err = a.client.Languages(ctx)
			return err
		},
		"carrier": func(ctx context.Context) error {
			var err error
			next.Carriers, err = a.client.Carriers(ctx)
			return err
		},
		"device_price": func(ctx context.Context) error {
			var err error
			next.DevicePrices, err = a.client.DevicePrices(ctx)
			return err
		},
		"buy_type": func(ctx context.Context) error {
			var err error
			next.BuyTypes, err = a.client.BuyTypes(ctx)
			return err
		},
		"viewability": func(ctx context.Context) error {
			var err error
			next.Viewability, err = a.client.Viewability(ctx)
			return err
		},
		"brand_safety": func(ctx context.Context) error {
			var err error
			next.BrandSafety, err = a.client.BrandSafety(ctx)
			return err
		},
		"interest_category": func(ctx context.Context) error {
			var err error
			next.InterestCategories, err = a.client.InterestCategories(ctx)
			return err
		},
		"location": func(ctx context.Context) error {
			var err error
			next.Locations, err = a.client.Locations(ctx)
			return err
		},
		"interest": func(ctx context.Context) error {
			var err error
			next.Interests, err = a.client.Interests(ctx, "")
			return err
		},
		"impression": func(ctx context.Context) error {
			var err error
			next.Impressions, err = a.client.Impressions(ctx)
			return err
		},
		"creative": func(ctx context.Context) error {
			var err error
			next.Creatives, err = a.client.Creatives(ctx)
			return err
		},
	}
	if auth.IsAdmin() {
		fetches["users"] = func(ctx context.Context) error {
			var err error
			next.Users, err = a.client.Users(ctx)
			return err
		}
	}

	var wg sync.WaitGroup
	var errMu sync.Mutex
	failures := make(map[string]error)
	for name, fetch := range fetches {
		wg.Add(1)
		go func(name string, fetch func(context.Context) error) {
			defer wg.Done()
			if err := fetch(ctx); err != nil {
				errMu.Lock()
				failures[name] = err
				errMu.Unlock()
			}
		}(name, fetch)
	}
	wg.Wait()

	a.metrics.RecordRefDataLoadLatency(time.Since(start))
	if len(failures) > 0 {
		a.metrics.IncrementRefDataLoad("error")
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			a.logger.Warn("reference data fetch failed",
				zap.String("list", name),
				zap.Error(failures[name]))
		}
		return nil, fmt.Errorf("load reference data %s: %w", names[0], failures[names[0]])
	}
	a.metrics.IncrementRefDataLoad("ok")

	a.mu.Lock()
	a.snap = next
	a.loadedToken = auth.Token
	subs := make([]func(*Snapshot), len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	a.logger.Info("reference data loaded",
		zap.Int("locations", len(next.Locations)),
		zap.Int("interests", len(next.Interests)),
		zap.Int64("total_population", next.TotalPopulation()),
		zap.Duration("elapsed", time.Since(start)))

	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}
