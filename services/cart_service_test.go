package services_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

// --- Mock cart repository ---

type mockCartRepo struct {
	mu     sync.Mutex
	carts  map[string]*models.Cart
	getErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*models.Cart)}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &cp
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

var _ repository.CartRepository = (*mockCartRepo)(nil)

// --- Mock checkout producer ---

type mockCheckoutProducer struct {
	events []models.CheckoutEvent
}

func (m *mockCheckoutProducer) SendCheckoutEvent(_ context.Context, event models.CheckoutEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockCheckoutProducer) Close() {}

// --- Helpers ---

func newTestCartService(repo repository.CartRepository, producer *mockCheckoutProducer) services.CartService {
	logger, _ := zap.NewDevelopment()
	return services.NewCartService(repo, producer, logger)
}

func item(productID, size, plating string, qty int) models.CartItem {
	return models.CartItem{
		ProductID: productID,
		Name:      "Test Ring",
		UnitPrice: 149.99,
		Quantity:  qty,
		Size:      size,
		Plating:   plating,
	}
}

// --- Tests ---

func TestMergeLocalCart_SumsQuantitiesOnSameKey(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})
	ctx := context.Background()

	_ = repo.SaveCart(ctx, &models.Cart{
		UserID: "jane@example.com",
		Items:  []models.CartItem{item("P1", "", "", 1)},
	})

	cart, appErr := svc.MergeLocalCart(ctx, "jane@example.com", []models.CartItem{item("P1", "", "", 2)})
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestMergeLocalCart_SizeKeepsLinesSeparate(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})
	ctx := context.Background()

	_ = repo.SaveCart(ctx, &models.Cart{
		UserID: "jane@example.com",
		Items:  []models.CartItem{item("P1", "6", "", 1)},
	})

	cart, appErr := svc.MergeLocalCart(ctx, "jane@example.com", []models.CartItem{item("P1", "7", "", 1)})
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)
}

func TestMergeLocalCart_NoServerCart(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})

	cart, appErr := svc.MergeLocalCart(context.Background(), "jane@example.com", []models.CartItem{
		item("P1", "", "gold", 2),
		item("P2", "", "", 1),
	})
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestMergeLocalCart_ConcurrentMergesSerialize(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})
	ctx := context.Background()

	const merges = 10
	var wg sync.WaitGroup
	wg.Add(merges)
	for i := 0; i < merges; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.MergeLocalCart(ctx, "jane@example.com", []models.CartItem{item("P1", "", "", 1)})
		}()
	}
	wg.Wait()

	cart, appErr := svc.GetCart(ctx, "jane@example.com")
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, merges, cart.Items[0].Quantity)
}

func TestAddItems_FoldsOnMergeKey(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})
	ctx := context.Background()

	_, appErr := svc.AddItems(ctx, "jane@example.com", []models.CartItem{item("P1", "6", "gold", 1)})
	assert.Nil(t, appErr)
	cart, appErr := svc.AddItems(ctx, "jane@example.com", []models.CartItem{item("P1", "6", "gold", 2)})
	assert.Nil(t, appErr)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestRemoveItem_VariantFilter(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})
	ctx := context.Background()

	_ = repo.SaveCart(ctx, &models.Cart{
		UserID: "jane@example.com",
		Items: []models.CartItem{
			item("P1", "6", "", 1),
			item("P1", "7", "", 1),
			item("P2", "", "", 1),
		},
	})

	// Removing one size leaves the other variant in place.
	cart, appErr := svc.RemoveItem(ctx, "jane@example.com", "P1", "6", "")
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)

	// No size filter removes every remaining variant of the product.
	cart, appErr = svc.RemoveItem(ctx, "jane@example.com", "P1", "", "")
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "P2", cart.Items[0].ProductID)
}

func TestCheckout_PublishesAndClears(t *testing.T) {
	repo := newMockCartRepo()
	producer := &mockCheckoutProducer{}
	svc := newTestCartService(repo, producer)
	ctx := context.Background()

	_ = repo.SaveCart(ctx, &models.Cart{
		UserID: "jane@example.com",
		Items:  []models.CartItem{item("P1", "", "", 2)},
	})

	appErr := svc.Checkout(ctx, "jane@example.com")
	assert.Nil(t, appErr)
	assert.Len(t, producer.events, 1)
	assert.Equal(t, "checkout.requested", producer.events[0].Event)

	cart, _ := svc.GetCart(ctx, "jane@example.com")
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	repo := newMockCartRepo()
	svc := newTestCartService(repo, &mockCheckoutProducer{})

	appErr := svc.Checkout(context.Background(), "jane@example.com")
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestCheckout_StoreFailureIsNotMissingCart(t *testing.T) {
	repo := newMockCartRepo()
	repo.getErr = errors.New("redis: connection refused")
	producer := &mockCheckoutProducer{}
	svc := newTestCartService(repo, producer)

	appErr := svc.Checkout(context.Background(), "jane@example.com")
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Empty(t, producer.events)
}
