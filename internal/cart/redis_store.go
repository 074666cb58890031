// Package cart keeps visitor carts in Redis, one hash per cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinic-web/internal/domain"
	"clinic-web/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName holds the visitor's cart ID.
	CookieName = "clinic_cart"

	DefaultTTL = 7 * 24 * time.Hour

	// MaxQuantity caps a single line.
	MaxQuantity = 99

	keyPrefix  = "cart:"
	maxRetries = 3
)

// line is the stored form of a cart item. Added keeps lines in insertion order.
type line struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Added    int64   `json:"added"`
}

// RedisStore implements domain.CartStore.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a cart store. A ttl <= 0 uses DefaultTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func cartKey(cartID string) string {
	return keyPrefix + cartID
}

// ClampQuantity bounds n to 1..MaxQuantity.
func ClampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxQuantity:
		return MaxQuantity
	}
	return n
}

func (s *RedisStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(cartID)).Result()
	if err != nil {
		record("get", err)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	type entry struct {
		id string
		line
	}
	entries := make([]entry, 0, len(fields))
	for productID, raw := range fields {
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			observability.FromContext(ctx).Warn("dropping unreadable cart line",
				"cart_id", cartID, "product_id", productID, observability.Err(err))
			continue
		}
		entries = append(entries, entry{id: productID, line: l})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Added != entries[j].Added {
			return entries[i].Added < entries[j].Added
		}
		return entries[i].id < entries[j].id
	})

	cart := &domain.Cart{ID: cartID, Items: make([]domain.CartItem, 0, len(entries))}
	for _, e := range entries {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: e.id,
			Name:      e.Name,
			Price:     e.Price,
			Quantity:  e.Quantity,
		})
	}
	record("get", nil)
	return cart, nil
}

// Add puts item in the cart, adding to the quantity of an existing line.
// The merged quantity saturates at MaxQuantity.
func (s *RedisStore) Add(ctx context.Context, cartID string, item domain.CartItem) error {
	item.Quantity = ClampQuantity(item.Quantity)
	err := s.update(ctx, cartID, item.ProductID, func(existing *line) *line {
		if existing == nil {
			return &line{Name: item.Name, Price: item.Price, Quantity: item.Quantity, Added: s.now().UnixNano()}
		}
		existing.Quantity = ClampQuantity(ClampQuantity(existing.Quantity) + item.Quantity)
		existing.Name = item.Name
		existing.Price = item.Price
		return existing
	})
	record("add", err)
	return err
}

// SetQuantity replaces a line's quantity, capped at MaxQuantity; zero or less
// removes it. Unknown products are ignored.
func (s *RedisStore) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	err := s.update(ctx, cartID, productID, func(existing *line) *line {
		if existing == nil || quantity <= 0 {
			return nil
		}
		existing.Quantity = ClampQuantity(quantity)
		return existing
	})
	record("set_quantity", err)
	return err
}

func (s *RedisStore) Remove(ctx context.Context, cartID, productID string) error {
	err := s.client.HDel(ctx, cartKey(cartID), productID).Err()
	record("remove", err)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	err := s.client.Del(ctx, cartKey(cartID)).Err()
	record("clear", err)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// update applies fn to one line under WATCH so concurrent adds are not lost.
// fn returning nil deletes the line.
func (s *RedisStore) update(ctx context.Context, cartID, productID string, fn func(*line) *line) error {
	key := cartKey(cartID)

	txf := func(tx *redis.Tx) error {
		var existing *line
		raw, err := tx.HGet(ctx, key, productID).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			existing = &line{}
			if err := json.Unmarshal([]byte(raw), existing); err != nil {
				existing = nil
			}
		}

		next := fn(existing)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.HDel(ctx, key, productID)
				return nil
			}
			data, err := json.Marshal(next)
			if err != nil {
				return err
			}
			pipe.HSet(ctx, key, productID, data)
			pipe.Expire(ctx, key, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return fmt.Errorf("failed to update cart: %w", redis.TxFailedErr)
}

func record(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.CartOperations.WithLabelValues(operation, status).Inc()
}
