package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/kafka"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
)

// CartService owns cart reads, item folding and the login-time merge.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error)
	AddItems(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, *apperrors.Error)
	RemoveItem(ctx context.Context, userID, productID, size, plating string) (*models.Cart, *apperrors.Error)
	ClearCart(ctx context.Context, userID string) *apperrors.Error
	MergeLocalCart(ctx context.Context, userID string, localItems []models.CartItem) (*models.Cart, *apperrors.Error)
	Checkout(ctx context.Context, userID string) *apperrors.Error
}

type cartServiceImpl struct {
	repo     repository.CartRepository
	producer kafka.CheckoutProducer
	mergeMu  *KeyedMutex
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(repo repository.CartRepository, producer kafka.CheckoutProducer, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		repo:     repo,
		producer: producer,
		mergeMu:  NewKeyedMutex(),
		logger:   logger,
	}
}

// GetCart returns the user's cart; a user with no stored cart gets an empty one.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if cart == nil {
		cart = emptyCart(userID)
	}
	return cart, nil
}

// AddItems folds the given items into the stored cart by merge key.
func (s *cartServiceImpl) AddItems(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.GetCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	cart.Items = mergeItems(cart.Items, items)

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	return cart, nil
}

// RemoveItem drops the lines matching productID, optionally narrowed by size
// and plating. Empty size/plating filters match every variant of the product.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID, size, plating string) (*models.Cart, *apperrors.Error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if cart == nil {
		return nil, apperrors.ErrNotFound
	}

	newItems := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID == productID &&
			(size == "" || item.Size == size) &&
			(plating == "" || item.Plating == plating) {
			continue
		}
		newItems = append(newItems, item)
	}
	cart.Items = newItems

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to update cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	return cart, nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *apperrors.Error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return apperrors.ErrInternalServer.Wrap(err)
	}
	return nil
}

// MergeLocalCart folds a client-local cart into the server-stored cart at
// login. Items with an equal merge key sum quantities, everything else is
// appended. Merges for the same identity are serialized so duplicate login
// events cannot double-count.
//
// The local cart is not cleared here; the caller owns that after a
// successful merge.
func (s *cartServiceImpl) MergeLocalCart(ctx context.Context, userID string, localItems []models.CartItem) (*models.Cart, *apperrors.Error) {
	s.mergeMu.Lock(userID)
	defer s.mergeMu.Unlock(userID)

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart for merge", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if cart == nil {
		cart = emptyCart(userID)
	}

	cart.Items = mergeItems(cart.Items, localItems)

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to persist merged cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}

	s.logger.Info("Merged local cart",
		zap.String("user_id", userID),
		zap.Int("local_items", len(localItems)),
		zap.Int("merged_lines", len(cart.Items)),
	)

	return cart, nil
}

// Checkout publishes the cart as a checkout event and clears it.
func (s *cartServiceImpl) Checkout(ctx context.Context, userID string) *apperrors.Error {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.String("user_id", userID), zap.Error(err))
		return apperrors.ErrInternalServer.Wrap(err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return apperrors.ErrNotFound
	}

	event := models.CheckoutEvent{
		Event:     "checkout.requested",
		UserID:    userID,
		Items:     cart.Items,
		Timestamp: time.Now(),
	}
	if err := s.producer.SendCheckoutEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish checkout event", zap.String("user_id", userID), zap.Error(err))
		return apperrors.ErrInternalServer.Wrap(err)
	}

	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Checkout published but cart not cleared", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

func emptyCart(userID string) *models.Cart {
	return &models.Cart{
		UserID: userID,
		Items:  []models.CartItem{},
	}
}

// mergeItems folds incoming items into existing lines by merge key,
// preserving the order lines were first seen.
func mergeItems(existing, incoming []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, len(existing))
	copy(merged, existing)

	index := make(map[models.MergeKey]int, len(merged))
	for i, item := range merged {
		index[item.Key()] = i
	}

	for _, item := range incoming {
		if i, ok := index[item.Key()]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
