// Package cart owns the in-memory cart line items for the current session.
// The policy is server-is-truth: every mutation ends by refetching the whole
// cart from the backend, never by applying a local patch, so concurrent
// stock or price changes cannot drift the client copy.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/metrics"
	"github.com/yashpandey06/E-Commerce-Application/internal/session"
)

// CartAPI is the slice of the backend client the store depends on.
type CartAPI interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error
}

// SessionGate is the slice of the session manager the store depends on:
// the authentication check before mutations and the cross-cutting 401 rule.
type SessionGate interface {
	IsAuthenticated() bool
	InvalidateOn(err error) bool
}

// Store holds the authoritative client-side copy of the cart. It has no
// independent lifecycle: it is cleared the moment the session leaves
// Authenticated and refetched the moment the session enters it.
type Store struct {
	api    CartAPI
	sess   SessionGate
	logger *slog.Logger

	mu       sync.Mutex
	items    []domain.CartItem
	errMsg   string
	inflight int
}

// NewStore creates a cart store. The composition root must subscribe
// OnSessionChange to the session manager to establish the lifecycle binding.
func NewStore(cartAPI CartAPI, sess SessionGate, logger *slog.Logger) *Store {
	return &Store{
		api:    cartAPI,
		sess:   sess,
		logger: logger,
		items:  []domain.CartItem{},
	}
}

// OnSessionChange is the lifecycle binding. It matches session.Observer so
// the composition root can pass it to Manager.Subscribe directly.
func (s *Store) OnSessionChange(state session.State, _ *domain.User) {
	switch state {
	case session.StateAuthenticated:
		// Result discarded here; failures are retained in Err.
		_ = s.Refresh(context.Background())
	default:
		s.Clear()
	}
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// ItemCount returns the total quantity across all items, recomputed on every
// call.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.items)
}

// Total returns the sum of price × quantity across all items, recomputed on
// every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.items)
}

// Err returns the retained error message from the last failed refresh, empty
// when the last refresh succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Loading reports whether any store operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Refresh replaces the item collection with the backend's cart.
//
//   - 404 normalizes to an empty cart with no retained error (not every user
//     has a cart record yet).
//   - 401 triggers the cross-cutting logout rule, which empties the store via
//     the lifecycle binding.
//   - Any other failure retains an error message without clearing existing
//     items: stale-but-visible beats blanking the UI on a transient failure.
//
// The error is also returned for callers that want it; background callers
// (the lifecycle binding, post-mutation resyncs) read Err instead.
func (s *Store) Refresh(ctx context.Context) error {
	s.beginOp()
	defer s.endOp()

	items, err := s.api.GetCart(ctx)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			s.replaceItems([]domain.CartItem{})
			metrics.ObserveCartOperation("refresh", nil)
			return nil
		case s.sess.InvalidateOn(err):
			metrics.ObserveCartOperation("refresh", err)
			return err
		default:
			s.logger.WarnContext(ctx, "cart refresh failed, keeping last known items",
				slog.String("error", err.Error()),
			)
			s.setErr(apperrors.Message(err))
			metrics.ObserveCartOperation("refresh", err)
			return err
		}
	}

	s.replaceItems(items)
	metrics.ObserveCartOperation("refresh", nil)
	return nil
}

// AddItem POSTs a new line item, then resynchronizes from the backend.
// It fails before any network call when the session is not authenticated.
// Failures are returned to the caller for per-action feedback, never
// swallowed.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	if !s.sess.IsAuthenticated() {
		return apperrors.Unauthenticated("login required to modify the cart")
	}

	s.beginOp()
	defer s.endOp()

	if err := s.api.AddCartItem(ctx, productID, quantity); err != nil {
		s.sess.InvalidateOn(err)
		metrics.ObserveCartOperation("add", err)
		return err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity),
	)
	metrics.ObserveCartOperation("add", nil)
	return s.Refresh(ctx)
}

// RemoveItem DELETEs a line item, then resynchronizes from the backend.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	s.beginOp()
	defer s.endOp()

	if err := s.api.RemoveCartItem(ctx, itemID); err != nil {
		s.sess.InvalidateOn(err)
		metrics.ObserveCartOperation("remove", err)
		return err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.Int64("item_id", itemID),
	)
	metrics.ObserveCartOperation("remove", nil)
	return s.Refresh(ctx)
}

// UpdateQuantity PUTs a new quantity for a line item, then resynchronizes.
// A quantity of zero or less delegates to RemoveItem; no separate endpoint is
// called.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}

	s.beginOp()
	defer s.endOp()

	if err := s.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		s.sess.InvalidateOn(err)
		metrics.ObserveCartOperation("update", err)
		return err
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity),
	)
	metrics.ObserveCartOperation("update", nil)
	return s.Refresh(ctx)
}

// Clear empties the in-memory collection and error state without contacting
// the backend. It exists for the logout cascade, not for authoritative
// deletion.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []domain.CartItem{}
	s.errMsg = ""
}

func (s *Store) replaceItems(items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.errMsg = ""
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

func (s *Store) beginOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
}

func (s *Store) endOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}
