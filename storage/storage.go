package storage

import (
	"context"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
)

// Storage persists the cart across process restarts. It is read once at
// startup and written after every mutation.
type Storage interface {
	Load(ctx context.Context) (*models.Cart, bool, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const CartKeyPrefix = "cart"
