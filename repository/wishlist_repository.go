package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

type WishlistRepository interface {
	GetWishlist(ctx context.Context, userID string) (*models.Wishlist, error)
	SaveWishlist(ctx context.Context, wishlist *models.Wishlist) error
	DeleteWishlist(ctx context.Context, userID string) error
}

type redisWishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisWishlistRepository(client *redis.Client, ttl time.Duration) WishlistRepository {
	return &redisWishlistRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisWishlistRepository) getKey(userID string) string {
	return fmt.Sprintf("wishlist:user:%s", userID)
}

func (r *redisWishlistRepository) GetWishlist(ctx context.Context, userID string) (*models.Wishlist, error) {
	data, err := r.client.Get(ctx, r.getKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var wl models.Wishlist
	if err := json.Unmarshal([]byte(data), &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

func (r *redisWishlistRepository) SaveWishlist(ctx context.Context, wishlist *models.Wishlist) error {
	wishlist.UpdatedAt = time.Now()

	data, err := json.Marshal(wishlist)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.getKey(wishlist.UserID), data, r.ttl).Err()
}

func (r *redisWishlistRepository) DeleteWishlist(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.getKey(userID)).Err()
}
