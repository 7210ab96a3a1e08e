package commands_test

import (
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCancelHandler(factory *MockOrderUoWFactory) commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		factory, services.NewCancellationPolicy(services.DefaultCustomerCancelWindow), fixedClock,
	)
}

func TestNewCancelOrderCommand(t *testing.T) {
	t.Run("should create command with valid input", func(t *testing.T) {
		id := kernel.NewUUID()
		requestedBy := mustActor(t, actor.RoleAdmin)

		cmd, err := commands.NewCancelOrderCommand(id, requestedBy)

		require.NoError(t, err)
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, requestedBy, cmd.RequestedBy())
	})

	t.Run("should fail with invalid order id", func(t *testing.T) {
		_, err := commands.NewCancelOrderCommand(kernel.UUID{}, mustActor(t, actor.RoleAdmin))

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should fail with unconstructed actor", func(t *testing.T) {
		_, err := commands.NewCancelOrderCommand(kernel.NewUUID(), actor.Actor{})

		require.Error(t, err)
		assert.ErrorIs(t, err, actor.ErrActorIsNotConstructed)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.CancelOrderCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrCancelOrderCommandIsNotConstructed)
	})
}

func TestCancelOrderCommandHandler_Handle_AdminCancelsProcessingOrder(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, kernel.NewUUID(), order.StatusProcessing)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), mustActor(t, actor.RoleAdmin))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				cancelled := args.Get(1).(*order.Order)
				assert.Equal(t, order.StatusCancelled, cancelled.Status())
				assert.Equal(t, "[CANCELLED] cancelled by admin", cancelled.Notes())
			}).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_OwnerCancelsInsideWindow(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	stored := storedOrder(t, ownerID, order.StatusPending)

	owner, err := actor.NewActor(ownerID, actor.RoleCustomer)
	require.NoError(t, err)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), owner)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				cancelled := args.Get(1).(*order.Order)
				assert.Equal(t, order.StatusCancelled, cancelled.Status())
				assert.Equal(t, "[CANCELLED] cancelled by customer", cancelled.Notes())
			}).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	// The stored order was created at the fixed clock instant, so the
	// handler's clock is still inside the five minute window.
	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_OwnerOutsideWindow(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	stored := storedOrder(t, ownerID, order.StatusPending)

	owner, err := actor.NewActor(ownerID, actor.RoleCustomer)
	require.NoError(t, err)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), owner)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	lateClock := func() time.Time { return handlerTestNow.Add(6 * time.Minute) }
	h := commands.NewCancelOrderCommandHandler(
		factory, services.NewCancellationPolicy(services.DefaultCustomerCancelWindow), lateClock,
	)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCancellationForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_StrangerCustomerDenied(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, kernel.NewUUID(), order.StatusPending)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), mustActor(t, actor.RoleCustomer))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCancellationForbidden)
}

func TestCancelOrderCommandHandler_Handle_AlreadyCancelledDenied(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, kernel.NewUUID(), order.StatusCancelled)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), mustActor(t, actor.RoleAdmin))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCancellationForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_DeliveredOrderDenied(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, kernel.NewUUID(), order.StatusDelivered)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), mustActor(t, actor.RoleAdmin))
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCancellationForbidden)
}

func TestCancelOrderCommandHandler_Handle_RetriesOnceOnConflict(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	first := storedOrder(t, ownerID, order.StatusPending)
	second := storedOrder(t, ownerID, order.StatusPending)
	cmd, err := commands.NewCancelOrderCommand(first.ID(), mustActor(t, actor.RoleVendor))
	require.NoError(t, err)

	conflict := errs.NewConcurrencyConflictError("order", first.ID().String())

	firstRepo := new(MockOrderRepository)
	firstUoW := new(MockOrderUoW)
	mock.InOrder(
		firstUoW.On("Begin", ctx).Return(nil).Once(),
		firstUoW.On("OrderRepository").Return(firstRepo).Once(),
		firstRepo.On("Get", mock.Anything, first.ID()).Return(first, nil).Once(),
		firstRepo.On("Update", mock.Anything, mock.Anything).Return(conflict).Once(),
		firstUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	secondRepo := new(MockOrderRepository)
	secondUoW := new(MockOrderUoW)
	mock.InOrder(
		secondUoW.On("Begin", ctx).Return(nil).Once(),
		secondUoW.On("OrderRepository").Return(secondRepo).Once(),
		secondRepo.On("Get", mock.Anything, first.ID()).Return(second, nil).Once(),
		secondRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once(),
		secondUoW.On("Commit", ctx).Return(nil).Once(),
		secondUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(firstUoW).Once()
	factory.On("Create").Return(secondUoW).Once()

	h := newCancelHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	firstRepo.AssertExpectations(t)
	secondRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}
