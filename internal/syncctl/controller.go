// Package syncctl keeps a store's users, products and orders in step with the
// backend: one full load at start, then a fixed-interval change poll.
package syncctl

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"auraz-storefront/internal/catalog"
	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/mirror"
	"auraz-storefront/internal/store"
	"golang.org/x/sync/errgroup"
)

type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "uninitialized"
}

// ErrStarted is returned by Start on a controller that is already running.
var ErrStarted = errors.New("sync controller already started")

// Remote is the backend surface the controller polls.
type Remote interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	LastSync(ctx context.Context) int64
	CheckUpdates(ctx context.Context, since int64) domain.SyncStatus
}

// Target receives the fetched collections. *store.Store satisfies it.
type Target interface {
	Users() []domain.User
	Products() []domain.Product
	Orders() []domain.Order
	ReplaceRemote(ctx context.Context, users []domain.User, products []domain.Product, orders []domain.Order)
}

type Options struct {
	// Interval between change checks. Defaults to 5s.
	Interval time.Duration
	// FallbackMirror, when set, supplies a collection whose initial fetch failed.
	FallbackMirror *mirror.Mirror
	Logger         *log.Logger
	Now            func() time.Time
}

type Controller struct {
	remote   Remote
	target   Target
	interval time.Duration
	fallback *mirror.Mirror
	logger   *log.Logger
	now      func() time.Time

	state    atomic.Int32
	baseline atomic.Int64

	mu         sync.Mutex
	lastCounts domain.SyncStatus
	cancel     context.CancelFunc
	done       chan struct{}
}

func New(remote Remote, target Target, opts Options) *Controller {
	c := &Controller{
		remote:   remote,
		target:   target,
		interval: opts.Interval,
		fallback: opts.FallbackMirror,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if c.interval <= 0 {
		c.interval = 5 * time.Second
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller) State() State { return State(c.state.Load()) }

// Baseline is the server timestamp (Unix ms) the next change check asks about.
func (c *Controller) Baseline() int64 { return c.baseline.Load() }

// LastCounts returns the change signal seen by the most recent check.
func (c *Controller) LastCounts() domain.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCounts
}

// Start performs the initial load and then polls until Stop is called or ctx
// ends. The controller reaches Ready even when every fetch fails.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrStarted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	c.state.Store(int32(Loading))
	c.initialLoad(loopCtx)
	c.state.Store(int32(Ready))

	go c.loop(loopCtx, done)
	return nil
}

// Stop ends the poll loop and waits for it to exit. It is safe to call more
// than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SyncNow(ctx)
		}
	}
}

type snapshot struct {
	users       []domain.User
	products    []domain.Product
	orders      []domain.Order
	usersErr    error
	productsErr error
	ordersErr   error
}

func (c *Controller) fetch(ctx context.Context) snapshot {
	var snap snapshot
	var g errgroup.Group
	g.Go(func() error {
		snap.users, snap.usersErr = c.remote.ListUsers(ctx)
		return nil
	})
	g.Go(func() error {
		snap.products, snap.productsErr = c.remote.ListProducts(ctx)
		return nil
	})
	g.Go(func() error {
		snap.orders, snap.ordersErr = c.remote.ListOrders(ctx)
		return nil
	})
	_ = g.Wait()

	for name, err := range map[string]error{"users": snap.usersErr, "products": snap.productsErr, "orders": snap.ordersErr} {
		if err != nil {
			c.logger.Printf("syncctl: fetch %s error=%v", name, err)
		}
	}
	return snap
}

func (c *Controller) initialLoad(ctx context.Context) {
	snap := c.fetch(ctx)

	users := snap.users
	if snap.usersErr != nil {
		users = mirror.Get(ctx, c.fallback, store.KeyUsers, []domain.User{})
	}
	products := snap.products
	if snap.productsErr != nil {
		products = mirror.Get(ctx, c.fallback, store.KeyProducts, catalog.Products())
	}
	if len(products) == 0 {
		products = catalog.Products()
	}
	orders := snap.orders
	if snap.ordersErr != nil {
		orders = mirror.Get(ctx, c.fallback, store.KeyOrders, []domain.Order{})
	}

	c.target.ReplaceRemote(ctx, users, products, orders)

	baseline := c.remote.LastSync(ctx)
	if baseline <= 0 {
		baseline = c.now().UnixMilli()
	}
	c.baseline.Store(baseline)
	c.logger.Printf("syncctl: loaded users=%d products=%d orders=%d baseline=%d", len(users), len(products), len(orders), baseline)
}

// SyncNow runs one change check and, when the backend reports new rows,
// reloads all three collections. It returns the reported status.
func (c *Controller) SyncNow(ctx context.Context) domain.SyncStatus {
	status := c.remote.CheckUpdates(ctx, c.Baseline())
	c.mu.Lock()
	c.lastCounts = status
	c.mu.Unlock()
	if !status.HasUpdates {
		return status
	}

	snap := c.fetch(ctx)
	users := snap.users
	if snap.usersErr != nil {
		users = c.target.Users()
	}
	products := snap.products
	if snap.productsErr != nil || len(products) == 0 {
		products = c.target.Products()
	}
	orders := snap.orders
	if snap.ordersErr != nil {
		orders = c.target.Orders()
	}
	c.target.ReplaceRemote(ctx, users, products, orders)

	next := status.Timestamp
	if next <= 0 {
		next = c.now().UnixMilli()
	}
	c.baseline.Store(next)
	c.logger.Printf("syncctl: refreshed orders=%d users=%d products=%d baseline=%d", status.Orders, status.Users, status.Products, next)
	return status
}
