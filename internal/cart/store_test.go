package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/session"
)

type mockCartAPI struct {
	mock.Mock
}

func (m *mockCartAPI) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *mockCartAPI) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	return m.Called(ctx, productID, quantity).Error(0)
}

func (m *mockCartAPI) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	return m.Called(ctx, itemID, quantity).Error(0)
}

func (m *mockCartAPI) RemoveCartItem(ctx context.Context, itemID int64) error {
	return m.Called(ctx, itemID).Error(0)
}

type mockSessionGate struct {
	mock.Mock
}

func (m *mockSessionGate) IsAuthenticated() bool {
	return m.Called().Bool(0)
}

func (m *mockSessionGate) InvalidateOn(err error) bool {
	return m.Called(err).Bool(0)
}

func newTestStore(t *testing.T) (*Store, *mockCartAPI, *mockSessionGate) {
	t.Helper()
	cartAPI := new(mockCartAPI)
	gate := new(mockSessionGate)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewStore(cartAPI, gate, logger), cartAPI, gate
}

func sampleItems() []domain.CartItem {
	return []domain.CartItem{
		{
			ID: 1, ProductID: 10, Quantity: 2,
			Product: domain.CartProduct{ID: 10, Name: "Mechanical Keyboard", Price: 89.99},
		},
		{
			ID: 2, ProductID: 11, Quantity: 1,
			Product: domain.CartProduct{ID: 11, Name: "USB-C Cable", Price: 9.50},
		},
	}
}

func TestStore_StartsEmpty(t *testing.T) {
	s, _, _ := newTestStore(t)

	assert.Empty(t, s.Items())
	assert.Zero(t, s.ItemCount())
	assert.Zero(t, s.Total())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
}

func TestRefresh_ReplacesItemsAndRecomputesDerived(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 3, s.ItemCount())
	assert.InDelta(t, 189.48, s.Total(), 0.001)
	assert.Empty(t, s.Err())
}

func TestRefresh_NotFoundNormalizesToEmptyCart(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil).Once()
	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, s.Items(), 2)

	cartAPI.On("GetCart", mock.Anything).Return(nil, apperrors.NotFound("cart", "7")).Once()

	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Err(), "404 is an empty cart, not an error")
}

func TestRefresh_TransientFailureKeepsLastKnownItems(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil).Once()
	require.NoError(t, s.Refresh(context.Background()))

	backendErr := apperrors.Transient("backend unreachable", io.ErrUnexpectedEOF)
	cartAPI.On("GetCart", mock.Anything).Return(nil, backendErr).Once()
	gate.On("InvalidateOn", backendErr).Return(false)

	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, s.Items(), 2, "stale items stay visible on transient failure")
	assert.Equal(t, "backend unreachable", s.Err())
}

func TestRefresh_SuccessClearsRetainedError(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	backendErr := apperrors.Transient("backend unreachable", io.ErrUnexpectedEOF)
	cartAPI.On("GetCart", mock.Anything).Return(nil, backendErr).Once()
	gate.On("InvalidateOn", backendErr).Return(false)
	_ = s.Refresh(context.Background())
	require.NotEmpty(t, s.Err())

	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil).Once()
	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Err())
}

func TestRefresh_UnauthorizedTriggersInvalidation(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	authErr := apperrors.Unauthenticated("token expired")
	cartAPI.On("GetCart", mock.Anything).Return(nil, authErr)
	gate.On("InvalidateOn", authErr).Return(true)

	err := s.Refresh(context.Background())
	require.Error(t, err)
	gate.AssertCalled(t, "InvalidateOn", authErr)
	assert.Empty(t, s.Err(), "logout cascade owns the cleanup, no retained message")
}

func TestAddItem_MutatesThenRefetches(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	gate.On("IsAuthenticated").Return(true)
	cartAPI.On("AddCartItem", mock.Anything, int64(10), 2).Return(nil)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil)

	require.NoError(t, s.AddItem(context.Background(), 10, 2))

	cartAPI.AssertCalled(t, "GetCart", mock.Anything)
	assert.Equal(t, 3, s.ItemCount())
}

func TestAddItem_UnauthenticatedFailsBeforeNetwork(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	gate.On("IsAuthenticated").Return(false)

	err := s.AddItem(context.Background(), 10, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	cartAPI.AssertNotCalled(t, "AddCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_BackendRejectionReturnsServerMessage(t *testing.T) {
	s, cartAPI, gate := newTestStore(t)
	gate.On("IsAuthenticated").Return(true)
	stockErr := apperrors.InvalidInput("insufficient stock")
	cartAPI.On("AddCartItem", mock.Anything, int64(10), 99).Return(stockErr)
	gate.On("InvalidateOn", stockErr).Return(false)

	err := s.AddItem(context.Background(), 10, 99)
	require.Error(t, err)
	assert.Equal(t, "insufficient stock", apperrors.Message(err))
	cartAPI.AssertNotCalled(t, "GetCart", mock.Anything)
}

func TestRemoveItem_MutatesThenRefetches(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("RemoveCartItem", mock.Anything, int64(2)).Return(nil)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems()[:1], nil)

	require.NoError(t, s.RemoveItem(context.Background(), 2))
	assert.Len(t, s.Items(), 1)
}

func TestUpdateQuantity_PositiveUpdatesThenRefetches(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("UpdateCartItem", mock.Anything, int64(1), 5).Return(nil)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil)

	require.NoError(t, s.UpdateQuantity(context.Background(), 1, 5))
	cartAPI.AssertCalled(t, "UpdateCartItem", mock.Anything, int64(1), 5)
}

func TestUpdateQuantity_ZeroDelegatesToRemove(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("RemoveCartItem", mock.Anything, int64(1)).Return(nil)
	cartAPI.On("GetCart", mock.Anything).Return([]domain.CartItem{}, nil)

	require.NoError(t, s.UpdateQuantity(context.Background(), 1, 0))

	cartAPI.AssertCalled(t, "RemoveCartItem", mock.Anything, int64(1))
	cartAPI.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity_NegativeDelegatesToRemove(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("RemoveCartItem", mock.Anything, int64(1)).Return(nil)
	cartAPI.On("GetCart", mock.Anything).Return([]domain.CartItem{}, nil)

	require.NoError(t, s.UpdateQuantity(context.Background(), 1, -3))
	cartAPI.AssertCalled(t, "RemoveCartItem", mock.Anything, int64(1))
}

func TestClear_LocalOnly(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil).Once()
	require.NoError(t, s.Refresh(context.Background()))

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Zero(t, s.ItemCount())
	assert.Empty(t, s.Err())
	cartAPI.AssertNumberOfCalls(t, "GetCart", 1)
}

func TestOnSessionChange_AuthenticatedTriggersRefresh(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil)

	s.OnSessionChange(session.StateAuthenticated, &domain.User{ID: 7})

	assert.Len(t, s.Items(), 2)
}

func TestOnSessionChange_AnonymousClears(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil).Once()
	require.NoError(t, s.Refresh(context.Background()))

	s.OnSessionChange(session.StateAnonymous, nil)

	assert.Empty(t, s.Items())
}

func TestItems_ReturnsCopy(t *testing.T) {
	s, cartAPI, _ := newTestStore(t)
	cartAPI.On("GetCart", mock.Anything).Return(sampleItems(), nil)
	require.NoError(t, s.Refresh(context.Background()))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.Items()[0].Quantity)
}
