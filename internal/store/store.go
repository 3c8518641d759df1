// Package store is the storefront's application state. A Store owns every
// in-memory collection; each mutator swaps in a freshly built collection and
// then persists it to the mirror and announces it on the bus.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"auraz-storefront/internal/bus"
	"auraz-storefront/internal/catalog"
	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/gateway"
	"auraz-storefront/internal/mirror"
	"github.com/google/uuid"
)

// Mirror keys.
const (
	KeyCurrentUser          = "auraz_currentUser"
	KeyIsAdmin              = "auraz_isAdmin"
	KeyCart                 = "auraz_cart"
	KeyWishlist             = "auraz_wishlist"
	KeyUsers                = "auraz_users"
	KeyProducts             = "auraz_products"
	KeyOrders               = "auraz_orders"
	KeyPaymentVerifications = "auraz_paymentVerifications"
	KeyCarouselSlides       = "auraz_carouselSlides"
	KeyVouchers             = "auraz_vouchers"
	KeyPromoCards           = "auraz_promoCards"
	KeyRefunds              = "auraz_refunds"
	KeyNotifications        = "auraz_notifications"
	KeyDeliverySettings     = "auraz_deliverySettings"
	KeyReviews              = "auraz_reviews"
	KeyConversations        = "auraz_conversations"
)

// AllKeys lists every mirror key the store writes.
var AllKeys = []string{
	KeyCurrentUser, KeyIsAdmin, KeyCart, KeyWishlist,
	KeyUsers, KeyProducts, KeyOrders, KeyPaymentVerifications,
	KeyCarouselSlides, KeyVouchers, KeyPromoCards, KeyRefunds,
	KeyNotifications, KeyDeliverySettings, KeyReviews, KeyConversations,
}

// sharedKeys are the collections other instances may overwrite through the bus.
var sharedKeys = map[string]bool{
	KeyPaymentVerifications: true,
	KeyOrders:               true,
	KeyUsers:                true,
	KeyProducts:             true,
	KeyCarouselSlides:       true,
	KeyVouchers:             true,
	KeyPromoCards:           true,
	KeyRefunds:              true,
	KeyNotifications:        true,
	KeyConversations:        true,
}

// Remote is the subset of the backend API the store calls.
type Remote interface {
	Login(ctx context.Context, email, password string) (gateway.LoginResult, error)
	Register(ctx context.Context, in gateway.Registration) (gateway.RegisterResult, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]any) error
	DeleteUser(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, o domain.Order) error
	UpdateOrder(ctx context.Context, id string, updates map[string]any) error
}

// Deps are the collaborators of a Store. Bus and Logger are optional.
type Deps struct {
	Mirror *mirror.Mirror
	Remote Remote
	Bus    bus.Bus
	Logger *log.Logger
}

type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPaymentTTL sets how long a payment verification stays pending.
func WithPaymentTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.paymentTTL = d
		}
	}
}

// WithOrigin fixes the id stamped on published events.
func WithOrigin(origin string) Option {
	return func(s *Store) { s.origin = origin }
}

type Store struct {
	mirror     *mirror.Mirror
	remote     Remote
	bus        bus.Bus
	logger     *log.Logger
	now        func() time.Time
	paymentTTL time.Duration
	origin     string

	// publishMu is taken before mu and never held by bus handlers.
	publishMu sync.Mutex

	mu                   sync.Mutex
	currentUser          *domain.User
	isAdmin              bool
	cart                 []domain.CartItem
	wishlist             []domain.Product
	users                []domain.User
	products             []domain.Product
	orders               []domain.Order
	paymentVerifications []domain.PaymentVerification
	carouselSlides       []domain.CarouselSlide
	vouchers             []domain.Voucher
	promoCards           []domain.PromoCard
	refunds              []domain.RefundRequest
	notifications        []domain.Notification
	deliverySettings     domain.DeliverySettings
	reviews              []domain.Review
	conversations        []domain.Conversation

	timers      map[string]*time.Timer
	unsubscribe func()
	closed      bool
}

// New builds a Store holding the default catalog data. Call Hydrate to load
// the mirrored state.
func New(deps Deps, opts ...Option) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{
		mirror:     deps.Mirror,
		remote:     deps.Remote,
		bus:        deps.Bus,
		logger:     logger,
		now:        time.Now,
		paymentTTL: 3 * time.Minute,
		origin:     uuid.NewString(),
		timers:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Origin identifies this store on the bus.
func (s *Store) Origin() string { return s.origin }

func (s *Store) resetLocked() {
	s.currentUser = nil
	s.isAdmin = false
	s.cart = []domain.CartItem{}
	s.wishlist = []domain.Product{}
	s.users = []domain.User{}
	s.products = catalog.Products()
	s.orders = []domain.Order{}
	s.paymentVerifications = []domain.PaymentVerification{}
	s.carouselSlides = catalog.CarouselSlides()
	s.vouchers = catalog.Vouchers()
	s.promoCards = catalog.PromoCards()
	s.refunds = []domain.RefundRequest{}
	s.notifications = []domain.Notification{}
	s.deliverySettings = catalog.DeliverySettings()
	s.reviews = []domain.Review{}
	s.conversations = []domain.Conversation{}
}

// Hydrate loads every collection from the mirror, keeping defaults for keys
// that are absent or unreadable.
func (s *Store) Hydrate(ctx context.Context) {
	m := s.mirror
	currentUser := mirror.Get[*domain.User](ctx, m, KeyCurrentUser, nil)
	isAdmin := mirror.Get(ctx, m, KeyIsAdmin, false)
	cart := mirror.Get(ctx, m, KeyCart, []domain.CartItem{})
	wishlist := mirror.Get(ctx, m, KeyWishlist, []domain.Product{})
	users := mirror.Get(ctx, m, KeyUsers, []domain.User{})
	products := mirror.Get(ctx, m, KeyProducts, catalog.Products())
	orders := mirror.Get(ctx, m, KeyOrders, []domain.Order{})
	verifications := mirror.Get(ctx, m, KeyPaymentVerifications, []domain.PaymentVerification{})
	slides := mirror.Get(ctx, m, KeyCarouselSlides, catalog.CarouselSlides())
	vouchers := mirror.Get(ctx, m, KeyVouchers, catalog.Vouchers())
	promoCards := mirror.Get(ctx, m, KeyPromoCards, catalog.PromoCards())
	refunds := mirror.Get(ctx, m, KeyRefunds, []domain.RefundRequest{})
	notifications := mirror.Get(ctx, m, KeyNotifications, []domain.Notification{})
	delivery := mirror.Get(ctx, m, KeyDeliverySettings, catalog.DeliverySettings())
	reviews := mirror.Get(ctx, m, KeyReviews, []domain.Review{})
	conversations := mirror.Get(ctx, m, KeyConversations, []domain.Conversation{})

	s.mu.Lock()
	s.currentUser = currentUser
	s.isAdmin = isAdmin
	s.cart = nonNil(cart)
	s.wishlist = nonNil(wishlist)
	s.users = nonNil(users)
	s.products = nonNil(products)
	s.orders = nonNil(orders)
	s.paymentVerifications = nonNil(verifications)
	s.carouselSlides = nonNil(slides)
	s.vouchers = nonNil(vouchers)
	s.promoCards = nonNil(promoCards)
	s.refunds = nonNil(refunds)
	s.notifications = nonNil(notifications)
	s.deliverySettings = delivery
	s.reviews = nonNil(reviews)
	s.conversations = nonNil(conversations)
	expired := s.sweepLocked()
	s.armPendingLocked()
	s.mu.Unlock()

	if expired {
		s.save(ctx, KeyPaymentVerifications)
	}
	s.logger.Printf("store: hydrated users=%d products=%d orders=%d", len(users), len(products), len(orders))
}

// ReplaceRemote swaps in the collections fetched from the backend.
func (s *Store) ReplaceRemote(ctx context.Context, users []domain.User, products []domain.Product, orders []domain.Order) {
	s.mu.Lock()
	s.users = nonNil(users)
	s.products = nonNil(products)
	s.orders = nonNil(orders)
	s.mu.Unlock()
	s.save(ctx, KeyUsers, KeyProducts, KeyOrders)
}

// valueLocked returns the collection stored under key. Callers hold s.mu.
func (s *Store) valueLocked(key string) any {
	switch key {
	case KeyCurrentUser:
		return s.currentUser
	case KeyIsAdmin:
		return s.isAdmin
	case KeyCart:
		return s.cart
	case KeyWishlist:
		return s.wishlist
	case KeyUsers:
		return s.users
	case KeyProducts:
		return s.products
	case KeyOrders:
		return s.orders
	case KeyPaymentVerifications:
		return s.paymentVerifications
	case KeyCarouselSlides:
		return s.carouselSlides
	case KeyVouchers:
		return s.vouchers
	case KeyPromoCards:
		return s.promoCards
	case KeyRefunds:
		return s.refunds
	case KeyNotifications:
		return s.notifications
	case KeyDeliverySettings:
		return s.deliverySettings
	case KeyReviews:
		return s.reviews
	case KeyConversations:
		return s.conversations
	}
	return nil
}

// save writes the current value of each key to the mirror and publishes it.
// The mirror is written under mu together with the snapshot; publishMu keeps
// events in snapshot order.
func (s *Store) save(ctx context.Context, keys ...string) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = s.valueLocked(key)
		s.mirror.Set(ctx, key, values[i])
	}
	s.mu.Unlock()

	for i, key := range keys {
		s.publish(ctx, key, values[i])
	}
}

func (s *Store) publish(ctx context.Context, key string, value any) {
	if s.bus == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Printf("store: encode key=%s error=%v", key, err)
		return
	}
	ev := bus.Event{Key: key, Value: raw, Origin: s.origin, At: s.now().UTC()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Printf("store: publish key=%s error=%v", key, err)
	}
}

// Listen applies storage changes published by other instances until ctx is
// cancelled or the store is closed.
func (s *Store) Listen(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	cancel, err := s.bus.Subscribe(func(ev bus.Event) { s.applyEvent(ctx, ev) })
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	cancel = sync.OnceFunc(cancel)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return nil
	}
	prev := s.unsubscribe
	s.unsubscribe = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()
	return nil
}

func (s *Store) applyEvent(ctx context.Context, ev bus.Event) {
	if ev.Origin == s.origin || !sharedKeys[ev.Key] || len(ev.Value) == 0 {
		return
	}
	apply, err := s.decodeShared(ev.Key, ev.Value)
	if err != nil {
		s.logger.Printf("store: ignore event key=%s origin=%s error=%v", ev.Key, ev.Origin, err)
		return
	}

	s.mu.Lock()
	apply()
	if ev.Key == KeyPaymentVerifications {
		s.armPendingLocked()
	}
	s.mirror.SetRaw(ctx, ev.Key, ev.Value)
	s.mu.Unlock()

	s.logger.Printf("store: applied event key=%s origin=%s", ev.Key, ev.Origin)
}

// decodeShared decodes raw for key and returns the assignment to run under s.mu.
func (s *Store) decodeShared(key string, raw json.RawMessage) (func(), error) {
	switch key {
	case KeyPaymentVerifications:
		v, err := decode[domain.PaymentVerification](raw)
		return func() { s.paymentVerifications = v }, err
	case KeyOrders:
		v, err := decode[domain.Order](raw)
		return func() { s.orders = v }, err
	case KeyUsers:
		v, err := decode[domain.User](raw)
		return func() { s.users = v }, err
	case KeyProducts:
		v, err := decode[domain.Product](raw)
		return func() { s.products = v }, err
	case KeyCarouselSlides:
		v, err := decode[domain.CarouselSlide](raw)
		return func() { s.carouselSlides = v }, err
	case KeyVouchers:
		v, err := decode[domain.Voucher](raw)
		return func() { s.vouchers = v }, err
	case KeyPromoCards:
		v, err := decode[domain.PromoCard](raw)
		return func() { s.promoCards = v }, err
	case KeyRefunds:
		v, err := decode[domain.RefundRequest](raw)
		return func() { s.refunds = v }, err
	case KeyNotifications:
		v, err := decode[domain.Notification](raw)
		return func() { s.notifications = v }, err
	case KeyConversations:
		v, err := decode[domain.Conversation](raw)
		return func() { s.conversations = v }, err
	}
	return nil, fmt.Errorf("key %s is not shared", key)
}

func decode[T any](raw json.RawMessage) ([]T, error) {
	var v []T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return nonNil(v), nil
}

// Close stops expiry timers and the bus subscription.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimersLocked()
	cancel := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Diagnostics is a point-in-time summary of the store and its mirror.
type Diagnostics struct {
	MirrorAvailable bool            `json:"mirrorAvailable"`
	Products        int             `json:"products"`
	Users           int             `json:"users"`
	Orders          int             `json:"orders"`
	Keys            map[string]bool `json:"keys"`
}

func (s *Store) Diagnostics(ctx context.Context) Diagnostics {
	s.mu.Lock()
	d := Diagnostics{
		Products: len(s.products),
		Users:    len(s.users),
		Orders:   len(s.orders),
	}
	s.mu.Unlock()

	d.MirrorAvailable = s.mirror.Available(ctx)
	d.Keys = make(map[string]bool, len(AllKeys))
	for _, key := range AllKeys {
		d.Keys[key] = s.mirror.Exists(ctx, key)
	}
	return d
}

// ResetAllData restores the default catalog and empties everything else. The
// session is left alone.
func (s *Store) ResetAllData(ctx context.Context) {
	s.mu.Lock()
	currentUser, isAdmin := s.currentUser, s.isAdmin
	s.stopTimersLocked()
	s.resetLocked()
	s.currentUser, s.isAdmin = currentUser, isAdmin
	s.mu.Unlock()

	s.save(ctx,
		KeyProducts, KeyCarouselSlides, KeyVouchers, KeyPromoCards, KeyDeliverySettings,
		KeyUsers, KeyOrders, KeyPaymentVerifications, KeyRefunds, KeyNotifications,
		KeyReviews, KeyConversations, KeyCart, KeyWishlist,
	)
	s.logger.Printf("store: reset all data")
}

// ClearMirror removes every store key from the mirror. In-memory state is kept.
func (s *Store) ClearMirror(ctx context.Context) {
	s.mu.Lock()
	for _, key := range AllKeys {
		s.mirror.Delete(ctx, key)
	}
	s.mu.Unlock()
	s.logger.Printf("store: cleared mirror keys=%d", len(AllKeys))
}
