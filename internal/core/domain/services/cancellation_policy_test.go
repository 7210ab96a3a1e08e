package services_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cancelTestNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T, ownerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	info, err := order.NewCustomerInfo("Alice", "alice@example.com", "", "1 Main St")
	require.NoError(t, err)

	item, err := order.NewItem(
		kernel.NewUUID(), "Widget", "", "", "", 1, decimal.RequireFromString("9.99"),
	)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), ownerID, info, []order.Item{item}, cancelTestNow)
	require.NoError(t, err)

	if status != order.StatusPending {
		require.NoError(t, o.SetStatus(status, cancelTestNow))
	}
	return o
}

func TestNewCancellationPolicy(t *testing.T) {
	t.Run("should use the configured window", func(t *testing.T) {
		policy := services.NewCancellationPolicy(10 * time.Minute)

		assert.Equal(t, 10*time.Minute, policy.CustomerWindow())
	})

	t.Run("should fall back to the default window", func(t *testing.T) {
		policy := services.NewCancellationPolicy(0)

		assert.Equal(t, services.DefaultCustomerCancelWindow, policy.CustomerWindow())
	})
}

func TestCancellationPolicy_Authorize(t *testing.T) {
	policy := services.NewCancellationPolicy(services.DefaultCustomerCancelWindow)

	t.Run("should allow elevated roles on pending and processing orders", func(t *testing.T) {
		for _, role := range []actor.Role{actor.RoleVendor, actor.RoleAdmin} {
			for _, status := range []order.Status{order.StatusPending, order.StatusProcessing} {
				o := newTestOrder(t, kernel.NewUUID(), status)

				err := policy.Authorize(o, kernel.NewUUID(), role, cancelTestNow.Add(time.Hour))

				require.NoError(t, err, "%s should cancel a %s order", role, status)
			}
		}
	})

	t.Run("should deny cancellation of shipped and terminal orders", func(t *testing.T) {
		for _, status := range []order.Status{
			order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
		} {
			o := newTestOrder(t, kernel.NewUUID(), status)

			err := policy.Authorize(o, kernel.NewUUID(), actor.RoleAdmin, cancelTestNow)

			require.Error(t, err, "a %s order should not be cancellable", status)
			assert.ErrorIs(t, err, services.ErrCancellationForbidden)
		}
	})

	t.Run("should allow an owner inside the window", func(t *testing.T) {
		ownerID := kernel.NewUUID()
		o := newTestOrder(t, ownerID, order.StatusPending)

		err := policy.Authorize(
			o, ownerID, actor.RoleCustomer,
			cancelTestNow.Add(4*time.Minute+59*time.Second),
		)

		require.NoError(t, err)
	})

	t.Run("should deny an owner once the window has closed", func(t *testing.T) {
		ownerID := kernel.NewUUID()
		o := newTestOrder(t, ownerID, order.StatusPending)

		err := policy.Authorize(
			o, ownerID, actor.RoleCustomer,
			cancelTestNow.Add(5*time.Minute+time.Second),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrCancellationForbidden)
		assert.Contains(t, err.Error(), "window has closed")
	})

	t.Run("should deny a customer cancelling someone else's order", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID(), order.StatusPending)

		err := policy.Authorize(o, kernel.NewUUID(), actor.RoleCustomer, cancelTestNow)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrCancellationForbidden)
		assert.Contains(t, err.Error(), "their own orders")
	})

	t.Run("should deny an owner once processing has started", func(t *testing.T) {
		ownerID := kernel.NewUUID()
		o := newTestOrder(t, ownerID, order.StatusProcessing)

		err := policy.Authorize(o, ownerID, actor.RoleCustomer, cancelTestNow)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrCancellationForbidden)
		assert.Contains(t, err.Error(), "only cancel pending")
	})

	t.Run("should deny the system role", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID(), order.StatusPending)

		err := policy.Authorize(o, kernel.NewUUID(), actor.RoleSystem, cancelTestNow)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrCancellationForbidden)
	})

	t.Run("should surface the typed error with context", func(t *testing.T) {
		o := newTestOrder(t, kernel.NewUUID(), order.StatusShipped)

		err := policy.Authorize(o, kernel.NewUUID(), actor.RoleVendor, cancelTestNow)

		var forbidden *services.CancellationForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, order.StatusShipped, forbidden.Status)
		assert.Equal(t, actor.RoleVendor, forbidden.Role)
	})

	t.Run("should reject an unconstructed order", func(t *testing.T) {
		var o *order.Order

		err := policy.Authorize(o, kernel.NewUUID(), actor.RoleAdmin, cancelTestNow)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}
