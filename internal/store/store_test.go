package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"auraz-storefront/internal/bus"
	"auraz-storefront/internal/catalog"
	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/gateway"
	"auraz-storefront/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// stubRemote is an in-memory backend. Setting err makes every call fail.
type stubRemote struct {
	mu       sync.Mutex
	err      error
	users    []domain.User
	products []domain.Product
	orders   []domain.Order
	login    gateway.LoginResult
	updates  []map[string]any
}

func (r *stubRemote) Login(context.Context, string, string) (gateway.LoginResult, error) {
	if r.err != nil {
		return gateway.LoginResult{}, r.err
	}
	return r.login, nil
}

func (r *stubRemote) Register(_ context.Context, in gateway.Registration) (gateway.RegisterResult, error) {
	if r.err != nil {
		return gateway.RegisterResult{}, r.err
	}
	u := domain.User{ID: "user-new", Name: in.Name, Email: in.Email, Status: domain.UserPending}
	r.mu.Lock()
	r.users = append(r.users, u)
	r.mu.Unlock()
	return gateway.RegisterResult{Message: "Registration submitted! Please wait for admin approval.", User: u}, nil
}

func (r *stubRemote) ListUsers(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User(nil), r.users...), r.err
}

func (r *stubRemote) UpdateUser(_ context.Context, id string, updates map[string]any) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			if st, ok := updates["status"].(domain.UserStatus); ok {
				r.users[i].Status = st
			}
		}
	}
	r.updates = append(r.updates, updates)
	return nil
}

func (r *stubRemote) DeleteUser(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	r.users = out
	return nil
}

func (r *stubRemote) ListProducts(context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Product(nil), r.products...), r.err
}

func (r *stubRemote) CreateProduct(_ context.Context, p domain.Product) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.products = append(r.products, p)
	r.mu.Unlock()
	return nil
}

func (r *stubRemote) ListOrders(context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Order(nil), r.orders...), r.err
}

func (r *stubRemote) CreateOrder(_ context.Context, o domain.Order) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.orders = append(r.orders, o)
	r.mu.Unlock()
	return nil
}

func (r *stubRemote) UpdateOrder(_ context.Context, id string, updates map[string]any) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			if st, ok := updates["status"].(domain.OrderStatus); ok {
				r.orders[i].Status = st
			}
		}
	}
	r.updates = append(r.updates, updates)
	return nil
}

type fixture struct {
	store  *Store
	mirror *mirror.Mirror
	remote *stubRemote
	clock  *fakeClock
}

func newFixture(t *testing.T, b bus.Bus) *fixture {
	t.Helper()
	clock := newClock()
	m := mirror.New(mirror.NewMemory(), nil)
	remote := &stubRemote{
		login: gateway.LoginResult{User: domain.User{ID: "u1", Name: "Rina", Phone: "01700000000", Status: domain.UserApproved}},
		users: []domain.User{{ID: "u1", Name: "Rina", Status: domain.UserApproved}},
	}
	s := New(Deps{Mirror: m, Remote: remote, Bus: b}, WithClock(clock.Now))
	t.Cleanup(s.Close)
	return &fixture{store: s, mirror: m, remote: remote, clock: clock}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.store.Login(context.Background(), "rina@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, f.store.refreshUsers(context.Background()))
}

func assertMirrored[T any](t *testing.T, m *mirror.Mirror, key string, want T) {
	t.Helper()
	var zero T
	got := mirror.Get(context.Background(), m, key, zero)
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON), "key %s", key)
}

func TestNewStartsWithDefaults(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, catalog.Products(), f.store.Products())
	assert.Equal(t, catalog.Vouchers(), f.store.Vouchers())
	assert.Equal(t, catalog.DeliverySettings(), f.store.DeliverySettings())
	assert.Empty(t, f.store.Orders())
	assert.Nil(t, f.store.CurrentUser())
}

func TestMutatorsRoundTripThroughMirror(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.store
	f.login(t)

	product := catalog.Products()[0]
	s.AddToCart(ctx, product, 1, map[string]string{"Color": "Black"})
	s.AddToCart(ctx, product, 2, map[string]string{"Color": "Black"})
	s.AddToCart(ctx, product, 1, nil)
	require.Len(t, s.Cart(), 2)
	assert.Equal(t, 3, s.Cart()[0].Quantity)
	assertMirrored(t, f.mirror, KeyCart, s.Cart())

	assert.True(t, s.AddToWishlist(ctx, product))
	assert.False(t, s.AddToWishlist(ctx, product))
	assert.True(t, s.IsInWishlist(product.ID))
	assertMirrored(t, f.mirror, KeyWishlist, s.Wishlist())

	s.AddCarouselSlide(ctx, domain.CarouselSlide{Title: "Eid"})
	assertMirrored(t, f.mirror, KeyCarouselSlides, s.CarouselSlides())

	card := s.AddPromoCard(ctx, domain.PromoCard{Title: "Winter"})
	require.NoError(t, s.UpdatePromoCard(ctx, card.ID, map[string]any{"isActive": true, "order": 3}))
	assertMirrored(t, f.mirror, KeyPromoCards, s.PromoCards())

	v := s.AddVoucher(ctx, domain.Voucher{Code: "NEW", UsedCount: 9, UsageLimit: 5})
	assert.Zero(t, v.UsedCount)
	assertMirrored(t, f.mirror, KeyVouchers, s.Vouchers())

	require.NoError(t, s.UpdateDeliverySettings(ctx, map[string]any{"dhakaCharge": 80}))
	assert.Equal(t, 80.0, s.DeliverySettings().DhakaCharge)
	assert.Equal(t, 110.0, s.DeliverySettings().OutsideDhakaCharge)
	assertMirrored(t, f.mirror, KeyDeliverySettings, s.DeliverySettings())

	addr, err := s.AddAddress(ctx, "u1", domain.Address{Name: "Home", City: "Dhaka"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateAddress(ctx, "u1", addr.ID, map[string]any{"city": "Sylhet"}))
	assert.Equal(t, "Sylhet", s.CurrentUser().Addresses[0].City)
	assertMirrored(t, f.mirror, KeyUsers, s.Users())
	assertMirrored(t, f.mirror, KeyCurrentUser, s.CurrentUser())

	s.AddReview(ctx, domain.Review{ProductID: product.ID, UserID: "u1", Rating: 5})
	assert.Len(t, s.ProductReviews(product.ID), 1)
	assertMirrored(t, f.mirror, KeyReviews, s.ProductReviews(product.ID))

	require.NoError(t, s.UpdateProduct(ctx, product.ID, map[string]any{"stock": 3}))
	assertMirrored(t, f.mirror, KeyProducts, s.Products())
}

func TestUpdateCartQuantityRemovesAtZero(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := catalog.Products()[1]
	f.store.AddToCart(ctx, p, 1, nil)
	f.store.UpdateCartQuantity(ctx, p.ID, 4)
	assert.Equal(t, 4, f.store.Cart()[0].Quantity)
	f.store.UpdateCartQuantity(ctx, p.ID, 0)
	assert.Empty(t, f.store.Cart())
}

func TestUpdateUserProfileKeepsUnknownIDsSilent(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()

	require.NoError(t, f.store.UpdateUserProfile(ctx, "u1", map[string]any{"name": "Rina Das"}))
	assert.Equal(t, "Rina Das", f.store.CurrentUser().Name)
	assert.Equal(t, "Rina Das", f.store.Users()[0].Name)

	require.NoError(t, f.store.UpdateUserProfile(ctx, "ghost", map[string]any{"name": "x"}))
	assert.Error(t, f.store.UpdateUserProfile(ctx, "u1", map[string]any{"name": 12}))
	assert.Equal(t, "Rina Das", f.store.CurrentUser().Name)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	orders := []domain.Order{
		{ID: "cod", Status: domain.OrderPending, PaymentMethod: domain.PaymentCashOnDelivery},
		{ID: "bkash", Status: domain.OrderProcessing, PaymentMethod: "bKash"},
		{ID: "shipped", Status: domain.OrderShipped, PaymentMethod: "bKash"},
	}
	f.store.ReplaceRemote(ctx, nil, catalog.Products(), orders)

	tests := []struct {
		id   string
		msg  string
		want domain.OrderStatus
	}{
		{"cod", "Cash on Delivery orders cannot be cancelled. Please contact support at aurazsupport@gmail.com", domain.OrderPending},
		{"shipped", "This order cannot be cancelled at this stage", domain.OrderShipped},
		{"missing", "Order not found", ""},
		{"bkash", "", domain.OrderCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := f.store.CancelOrder(ctx, tt.id)
			if tt.msg == "" {
				require.NoError(t, err)
			} else {
				var ruleErr *RuleError
				require.True(t, errors.As(err, &ruleErr))
				assert.Equal(t, tt.msg, ruleErr.Message)
			}
			if tt.want != "" {
				o, ok := find(f.store.Orders(), func(o domain.Order) bool { return o.ID == tt.id })
				require.True(t, ok)
				assert.Equal(t, tt.want, o.Status)
			}
		})
	}
	assertMirrored(t, f.mirror, KeyOrders, f.store.Orders())
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()
	f.store.AddToCart(ctx, catalog.Products()[0], 1, nil)

	draft := domain.Order{
		UserID:        "u1",
		User:          &domain.OrderUser{ID: "u1", Name: "Rina"},
		Items:         f.store.Cart(),
		Total:         9059,
		PaymentMethod: "bKash",
	}
	order, err := f.store.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "order-"))
	assert.Equal(t, domain.OrderPending, order.Status)

	assert.Empty(t, f.store.Cart())
	require.Len(t, f.store.Orders(), 1)

	ns := f.store.Notifications()
	require.Len(t, ns, 2)
	assert.Equal(t, "New Order Received", ns[0].Title)
	assert.Equal(t, "New order #"+order.ID+" from Rina - ৳9059", ns[0].Message)
	assert.Equal(t, "Order Placed Successfully", ns[1].Title)
	assert.Equal(t, "u1", ns[1].UserID)
}

func TestGatewayFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.store.AddToCart(ctx, catalog.Products()[0], 1, nil)
	f.remote.err = &gateway.APIError{Status: 500, Message: "Internal server error"}

	_, err := f.store.PlaceOrder(ctx, domain.Order{UserID: "u1", Total: 10})
	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.Len(t, f.store.Cart(), 1)
	assert.Empty(t, f.store.Orders())
	assert.Empty(t, f.store.Notifications())

	assert.Error(t, f.store.ApproveUser(ctx, "u1"))
	_, err = f.store.AddProduct(ctx, domain.Product{Name: "x"})
	assert.Error(t, err)
	assert.Equal(t, catalog.Products(), f.store.Products())
}

func TestUpdateOrderStatusNotifiesCustomer(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.remote.orders = []domain.Order{{ID: "o1", UserID: "u1", Status: domain.OrderPending}}
	f.store.ReplaceRemote(ctx, nil, nil, []domain.Order{{ID: "o1", UserID: "u1", Status: domain.OrderPending}})

	require.NoError(t, f.store.UpdateOrderStatus(ctx, "o1", domain.OrderShipped))
	assert.Equal(t, domain.OrderShipped, f.store.Orders()[0].Status)
	ns := f.store.UserNotifications("u1")
	require.Len(t, ns, 1)
	assert.Equal(t, "Your order #o1 is now shipped", ns[0].Message)

	var ruleErr *RuleError
	assert.True(t, errors.As(f.store.UpdateOrderStatus(ctx, "o1", "lost"), &ruleErr))
}

func TestAdminUserActionsRefreshUsers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.store.Register(ctx, gateway.Registration{Name: "Tanvir", Email: "t@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, f.store.Users(), 2)

	require.NoError(t, f.store.ApproveUser(ctx, "user-new"))
	u, _ := find(f.store.Users(), func(u domain.User) bool { return u.ID == "user-new" })
	assert.Equal(t, domain.UserApproved, u.Status)

	require.NoError(t, f.store.DeleteUser(ctx, "user-new"))
	assert.Len(t, f.store.Users(), 1)
}

func TestAddProductFallsBackToNewProduct(t *testing.T) {
	f := newFixture(t, nil)
	f.remote.products = nil
	ctx := context.Background()

	p, err := f.store.AddProduct(ctx, domain.Product{Name: "Lamp", Price: 900})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.ID, "product-"))
	require.Len(t, f.store.Products(), 1)
	assert.Equal(t, "Lamp", f.store.Products()[0].Name)
}

func TestPaymentVerificationExpiry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.store.RequestPaymentVerification(ctx, domain.Order{Total: 500}, 500, "TX1")
	var ruleErr *RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "Please login to continue", ruleErr.Message)

	f.login(t)
	id, err := f.store.RequestPaymentVerification(ctx, domain.Order{UserID: "u1", Total: 500}, 500, "TX1")
	require.NoError(t, err)
	assert.Equal(t, "New Payment Verification", f.store.AdminNotifications()[0].Title)

	f.clock.Advance(2*time.Minute + 59*time.Second)
	v, ok := f.store.PaymentVerification(ctx, id)
	require.True(t, ok)
	assert.Equal(t, domain.VerificationPending, v.Status)
	assert.Equal(t, "01700000000", v.UserPhone)

	f.clock.Advance(time.Second + time.Millisecond)
	v, _ = f.store.PaymentVerification(ctx, id)
	assert.Equal(t, domain.VerificationExpired, v.Status)
	assertMirrored(t, f.mirror, KeyPaymentVerifications, f.store.PaymentVerifications(ctx))

	_, err = f.store.ApprovePaymentVerification(ctx, id)
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "Payment verification is already expired", ruleErr.Message)
	assert.Empty(t, f.store.Orders())
}

func TestPaymentVerificationTimerExpires(t *testing.T) {
	f := newFixture(t, nil)
	f.store.paymentTTL = 10 * time.Millisecond
	f.login(t)
	ctx := context.Background()

	id, err := f.store.RequestPaymentVerification(ctx, domain.Order{UserID: "u1"}, 100, "")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		vs := mirror.Get(ctx, f.mirror, KeyPaymentVerifications, []domain.PaymentVerification{})
		return len(vs) == 1 && vs[0].ID == id && vs[0].Status == domain.VerificationExpired
	}, time.Second, 5*time.Millisecond)
}

func TestApproveAndRejectPaymentVerification(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()

	draft := domain.Order{UserID: "u1", Total: 1200, PaymentMethod: "bKash", Status: domain.OrderPending}
	first, err := f.store.RequestPaymentVerification(ctx, draft, 1200, "TX1")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	second, err := f.store.RequestPaymentVerification(ctx, draft, 1200, "TX2")
	require.NoError(t, err)

	order, err := f.store.ApprovePaymentVerification(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderProcessing, order.Status)
	v, _ := f.store.PaymentVerification(ctx, first)
	assert.Equal(t, v.OrderID, order.ID)
	assert.Equal(t, domain.VerificationApproved, v.Status)
	require.Len(t, f.store.Orders(), 1)
	assert.Equal(t, "Payment Approved", f.store.UserNotifications("u1")[0].Title)

	require.NoError(t, f.store.RejectPaymentVerification(ctx, second))
	assert.Equal(t, "Payment Verification Failed", f.store.UserNotifications("u1")[0].Title)

	var ruleErr *RuleError
	assert.True(t, errors.As(f.store.RejectPaymentVerification(ctx, first), &ruleErr))
	_, err = f.store.ApprovePaymentVerification(ctx, "pv-missing")
	assert.True(t, errors.As(err, &ruleErr))

	f.store.DeletePaymentVerification(ctx, second)
	assert.Len(t, f.store.PaymentVerifications(ctx), 1)
}

func TestVoucherValidateAndApply(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()

	res := f.store.ValidateVoucher("welcome20", 5000, "u1")
	require.True(t, res.Valid)

	f.store.ApplyVoucher(ctx, "WELCOME20", "u1")
	v, _ := find(f.store.Vouchers(), func(v domain.Voucher) bool { return v.ID == "v1" })
	assert.Equal(t, 1, v.UsedCount)
	assert.Equal(t, []string{"v1"}, f.store.CurrentUser().UsedVouchers)

	res = f.store.ValidateVoucher("WELCOME20", 5000, "u1")
	assert.False(t, res.Valid)
	assert.Equal(t, "You have already used this voucher", res.Message)
}

func TestRefunds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.store.ReplaceRemote(ctx, nil, nil, []domain.Order{{ID: "o1", UserID: "u1", Total: 750}})

	_, err := f.store.CreateRefundRequest(ctx, "o1", "damaged")
	assert.Error(t, err)

	f.login(t)
	_, err = f.store.CreateRefundRequest(ctx, "nope", "damaged")
	assert.Error(t, err)

	refund, err := f.store.CreateRefundRequest(ctx, "o1", "damaged")
	require.NoError(t, err)
	assert.Equal(t, 750.0, refund.Amount)
	assert.Equal(t, "Rina requested a refund for order #o1", f.store.AdminNotifications()[0].Message)

	require.NoError(t, f.store.RejectRefund(ctx, refund.ID, "Item was used"))
	got := f.store.RefundRequests()[0]
	assert.Equal(t, domain.RefundRejected, got.Status)
	require.NotNil(t, got.ProcessedAt)
	assert.Equal(t, "Item was used", got.AdminNotes)
	assert.Equal(t, "Your refund request for order #o1 has been rejected. Item was used", f.store.UserNotifications("u1")[0].Message)

	assert.Error(t, f.store.ApproveRefund(ctx, "missing", ""))
}

func TestConversations(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id := f.store.CreateConversation(ctx, "Visitor", "v@example.com")
	require.NoError(t, f.store.AddMessageToConversation(ctx, id, domain.SenderUser, "hello"))
	assert.Empty(t, f.store.Notifications())

	require.NoError(t, f.store.TransferConversationToAdmin(ctx, id))
	assert.Equal(t, 2, f.store.AdminNotificationCount())
	assert.Len(t, f.store.ActiveConversations(), 1)

	long := strings.Repeat("a", 60)
	require.NoError(t, f.store.AddMessageToConversation(ctx, id, domain.SenderUser, long))
	assert.Equal(t, strings.Repeat("a", 50)+"...", f.store.AdminNotifications()[0].Message)

	require.NoError(t, f.store.AddMessageToConversation(ctx, id, domain.SenderAdmin, "hi"))
	conv, ok := f.store.Conversation(id)
	require.True(t, ok)
	assert.True(t, conv.AdminReplied)
	assert.Len(t, conv.Messages, 3)

	f.store.CloseConversation(ctx, id)
	assert.Empty(t, f.store.ActiveConversations())
	assert.Error(t, f.store.AddMessageToConversation(ctx, "missing", domain.SenderUser, "x"))

	f.store.DeleteConversation(ctx, id)
	assert.Empty(t, f.store.Conversations())
}

func TestNotificationsReadState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	n := f.store.AddNotification(ctx, domain.Notification{Target: domain.TargetAll, Title: "Sale"})
	assert.Equal(t, 1, f.store.UserUnreadNotificationCount("u1"))
	f.store.MarkNotificationRead(ctx, n.ID)
	assert.Equal(t, 0, f.store.UserUnreadNotificationCount("u1"))
}

func TestCrossInstanceEvents(t *testing.T) {
	b := bus.NewMemory()
	a := newFixture(t, b)
	other := newFixture(t, b)
	ctx := context.Background()
	require.NoError(t, a.store.Listen(ctx))
	require.NoError(t, other.store.Listen(ctx))

	slide := a.store.AddCarouselSlide(ctx, domain.CarouselSlide{Title: "Flash"})
	slides := other.store.CarouselSlides()
	assert.Equal(t, slide, slides[len(slides)-1])
	assertMirrored(t, other.mirror, KeyCarouselSlides, slides)

	a.store.AddToCart(ctx, catalog.Products()[0], 1, nil)
	assert.Empty(t, other.store.Cart())

	require.NoError(t, b.Publish(ctx, bus.Event{Key: KeyOrders, Value: json.RawMessage(`{"bad":`), Origin: "x"}))
	assert.Empty(t, other.store.Orders())

	require.NoError(t, b.Publish(ctx, bus.Event{Key: KeyOrders, Value: json.RawMessage(`[{"id":"o9"}]`), Origin: other.store.Origin()}))
	assert.Empty(t, other.store.Orders())
	require.Len(t, a.store.Orders(), 1)
}

// gatedBackend holds the first write of key until release is closed.
type gatedBackend struct {
	mirror.Backend
	key     string
	once    sync.Once
	blocked chan struct{}
	release chan struct{}
}

func (g *gatedBackend) Store(ctx context.Context, key string, data []byte) error {
	if key == g.key {
		first := false
		g.once.Do(func() { first = true })
		if first {
			close(g.blocked)
			<-g.release
		}
	}
	return g.Backend.Store(ctx, key, data)
}

func TestOverlappingSavesKeepMirrorAndBusCurrent(t *testing.T) {
	ctx := context.Background()
	gate := &gatedBackend{
		Backend: mirror.NewMemory(),
		key:     KeyCart,
		blocked: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := mirror.New(gate, nil)
	b := bus.NewMemory()

	var (
		mu       sync.Mutex
		lastCart json.RawMessage
	)
	cancel, err := b.Subscribe(func(ev bus.Event) {
		if ev.Key == KeyCart {
			mu.Lock()
			lastCart = ev.Value
			mu.Unlock()
		}
	})
	require.NoError(t, err)
	defer cancel()

	s := New(Deps{Mirror: m, Remote: &stubRemote{}, Bus: b}, WithClock(newClock().Now))
	t.Cleanup(s.Close)

	products := catalog.Products()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.AddToCart(ctx, products[0], 1, nil)
	}()
	<-gate.blocked

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.AddToCart(ctx, products[1], 1, nil)
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate.release)
	wg.Wait()

	require.Len(t, s.Cart(), 2)
	assertMirrored(t, m, KeyCart, s.Cart())

	want, err := json.Marshal(s.Cart())
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.JSONEq(t, string(want), string(lastCart))
}

func TestHydrateAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.login(t)
	f.store.AddToCart(ctx, catalog.Products()[0], 2, nil)
	f.store.AddNotification(ctx, domain.Notification{Target: domain.TargetAdmin, Title: "x"})

	restored := New(Deps{Mirror: f.mirror, Remote: f.remote}, WithClock(f.clock.Now))
	defer restored.Close()
	restored.Hydrate(ctx)
	assert.Equal(t, "u1", restored.CurrentUser().ID)
	assert.Len(t, restored.Cart(), 1)
	assert.Len(t, restored.Notifications(), 1)
	assert.Equal(t, catalog.Products(), restored.Products())

	restored.ResetAllData(ctx)
	assert.Empty(t, restored.Cart())
	assert.Empty(t, restored.Notifications())
	assert.NotNil(t, restored.CurrentUser())
	assertMirrored(t, f.mirror, KeyCart, []domain.CartItem{})

	d := restored.Diagnostics(ctx)
	assert.True(t, d.MirrorAvailable)
	assert.Equal(t, len(catalog.Products()), d.Products)
	assert.True(t, d.Keys[KeyCart])

	restored.ClearMirror(ctx)
	d = restored.Diagnostics(ctx)
	for _, key := range AllKeys {
		assert.False(t, d.Keys[key], key)
	}
	assert.NotEmpty(t, restored.Products())
}

func TestHydrateExpiresOverduePayments(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	m := mirror.New(mirror.NewMemory(), nil)
	m.Set(ctx, KeyPaymentVerifications, []domain.PaymentVerification{
		{ID: "pv-1", Status: domain.VerificationPending, ExpiresAt: clock.Now().Add(-time.Second)},
	})

	s := New(Deps{Mirror: m, Remote: &stubRemote{}}, WithClock(clock.Now))
	defer s.Close()
	s.Hydrate(ctx)
	assert.Equal(t, domain.VerificationExpired, s.PaymentVerifications(ctx)[0].Status)
}
