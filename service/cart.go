package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/cart"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/catalog"
	appErrors "github.com/aaravmahajanofficial/wholesale-cart-engine/errors"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/metrics"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/storage"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CartService is the single entry point screens use: it composes the
// normalized store, its persistence and the resolution client, and exposes
// the derived read-only aggregates.
//
// Mutations are atomic under the service mutex. Resolution runs against a
// deep clone, so an in-flight call can race with further mutations with
// last-response-wins semantics; callers decide when to refresh (typically
// when Stale reports true), the service never refreshes on its own.
type CartService struct {
	mu        sync.Mutex
	store     *cart.Store
	storage   storage.Storage
	resolver  catalog.Resolver
	validator *validator.Validate
	logger    *slog.Logger

	display     []models.CartManufacturerDisplay
	lastFetched time.Time
}

// NewCartService hydrates the cart from storage. A missing key starts a
// fresh, empty cart.
func NewCartService(ctx context.Context, store storage.Storage, resolver catalog.Resolver, logger *slog.Logger) (*CartService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	persisted, found, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !found {
		persisted = models.NewCart()
	}

	logger.Info("cart hydrated",
		slog.String("cartId", persisted.ID.String()),
		slog.Int("manufacturers", len(persisted.Manufacturers)))

	return &CartService{
		store:     cart.NewStore(persisted),
		storage:   store,
		resolver:  resolver,
		validator: validator.New(),
		logger:    logger,
	}, nil
}

// AddItem increments the stored quantity for the variant, creating the
// branch on first add.
func (s *CartService) AddItem(ctx context.Context, req *models.AddItemRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.ValidationError("Invalid add to cart request").WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.AddItem(*req)

	return s.persist(ctx, "add")
}

// UpdateItem sets an absolute quantity; zero removes the line and cascades.
func (s *CartService) UpdateItem(ctx context.Context, req *models.UpdateItemRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.ValidationError("Invalid cart update request").WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.UpdateItem(*req)

	return s.persist(ctx, "update")
}

// RemoveItem deletes a single line; removing a missing line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, req *models.RemoveItemRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.ValidationError("Invalid cart removal request").WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.RemoveItem(*req)

	return s.persist(ctx, "remove")
}

// RemoveManufacturer drops a manufacturer's whole subtree.
func (s *CartService) RemoveManufacturer(ctx context.Context, manufacturerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.RemoveManufacturer(manufacturerID)

	return s.persist(ctx, "remove_manufacturer")
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()

	return s.persist(ctx, "clear")
}

// IsEmpty reports whether the local store holds nothing.
func (s *CartService) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.IsEmpty()
}

// GetItemQuantity reads the local store, never the display cache, so it
// always reflects the user's intent even before reconciliation has run.
func (s *CartService) GetItemQuantity(manufacturerID int64, productID string, inventoryID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.ItemQuantity(manufacturerID, productID, inventoryID)
}

// GetTotalItems sums quantities from the local store.
func (s *CartService) GetTotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.TotalItems()
}

// FetchCartData resolves the cart against the backend and caches the
// projection. An empty cart short-circuits without a network call. On
// failure the previous cached projection survives and the store is
// untouched.
func (s *CartService) FetchCartData(ctx context.Context) ([]models.CartManufacturerDisplay, error) {
	s.mu.Lock()

	if s.store.IsEmpty() {
		s.display = nil
		s.lastFetched = time.Now().UTC()
		s.mu.Unlock()

		return nil, nil
	}

	snapshot := s.store.Clone()
	s.mu.Unlock()

	started := time.Now()
	displays, err := s.resolver.Resolve(ctx, snapshot)
	metrics.RecordReconcile(time.Since(started), err)

	if err != nil {
		s.logger.Error("cart resolution failed", slog.Any("error", err))

		return nil, err
	}

	s.mu.Lock()
	s.display = displays
	s.lastFetched = time.Now().UTC()
	s.mu.Unlock()

	return displays, nil
}

// Refresh is FetchCartData under its deterministic name: any caller, test
// harness included, can force a re-fetch without a UI lifecycle event.
func (s *CartService) Refresh(ctx context.Context) ([]models.CartManufacturerDisplay, error) {
	return s.FetchCartData(ctx)
}

// Stale reports whether the store has changed since the last successful
// fetch.
func (s *CartService) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.LastUpdated().After(s.lastFetched)
}

// CachedDisplay returns the projection from the last successful fetch. It is
// allowed to lag the store between a mutation and the next refresh.
func (s *CartService) CachedDisplay() []models.CartManufacturerDisplay {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.display
}

// CombinedSubtotal sums manufacturer subtotals across the projection.
func CombinedSubtotal(displays []models.CartManufacturerDisplay) decimal.Decimal {
	total := decimal.Zero

	for _, display := range displays {
		total = total.Add(display.Subtotal)
	}

	return total
}

// persist writes the mutated cart through to storage. A storage failure is
// surfaced, but the in-memory mutation stands: local intent is not rolled
// back, and the next successful save flushes it.
func (s *CartService) persist(ctx context.Context, operation string) error {
	metrics.RecordMutation(operation, s.store.TotalItems())

	if err := s.storage.Save(ctx, s.store.Cart()); err != nil {
		s.logger.Error("failed to persist cart",
			slog.String("operation", operation),
			slog.Any("error", err))

		return err
	}

	s.logger.Debug("cart persisted",
		slog.String("operation", operation),
		slog.Int("totalItems", s.store.TotalItems()))

	return nil
}
