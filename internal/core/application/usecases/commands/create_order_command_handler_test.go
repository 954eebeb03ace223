package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/event"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/order/ordertest"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/core/domain/services/temporal"
)

func newEngine(t *testing.T) *lifecycle.Engine {
	t.Helper()
	engine, err := lifecycle.NewEngine(temporal.DefaultRules(), financial.DefaultPolicy())
	require.NoError(t, err)
	return engine
}

type createOrderFixture struct {
	repo    *MockOrderRepository
	uow     *MockOrderUoW
	factory *MockOrderUoWFactory
	outbox  *MockOutboxRepository
	metrics *MockTransitionMetrics
	handler commands.CreateOrderCommandHandler
}

func newCreateOrderFixture(t *testing.T) *createOrderFixture {
	f := &createOrderFixture{
		repo:    new(MockOrderRepository),
		uow:     new(MockOrderUoW),
		factory: new(MockOrderUoWFactory),
		outbox:  new(MockOutboxRepository),
		metrics: new(MockTransitionMetrics),
	}
	f.handler = commands.NewCreateOrderCommandHandler(
		f.factory, newEngine(t), f.metrics, fixedClock(ordertest.Now), discardLogger(),
	)
	return f
}

func (f *createOrderFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_Draft(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyUrgent, false)
	require.NoError(t, err)

	f := newCreateOrderFixture(t)
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, inStatus(order.Draft)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	created, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Draft, created.Status())
	assert.Equal(t, cmd.OrderID(), created.ID())
	// 4 pages × 350 × 1.2
	assert.Equal(t, int64(1680), created.TotalPrice())
	assert.Equal(t, financial.DefaultRevisionStartScore, created.RevisionScore())
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_Publish(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyNormal, true)
	require.NoError(t, err)

	f := newCreateOrderFixture(t)
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, inStatus(order.Available)).Return(nil).Once(),
		f.uow.On("OutboxRepository").Return(f.outbox).Once(),
		f.outbox.On("Add", ctx, hasEvent(event.TypeStatusChanged)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.metrics.On("TransitionApplied", order.Draft, order.Available, order.ActionCreate, kernel.RoleAdmin).Once()

	created, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Available, created.Status())
	require.NotNil(t, created.Timeline().PublishedAt)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_OutboxFailureAbortsCreation(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyNormal, true)
	require.NoError(t, err)

	f := newCreateOrderFixture(t)
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.repo.On("Add", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("OutboxRepository").Return(f.outbox).Once()
	f.outbox.On("Add", ctx, mock.Anything).Return(errors.New("connection reset")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	created, err := f.handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, created)
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newCreateOrderFixture(t)
	_, err := f.handler.Handle(t.Context(), commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyNormal, false)

	f := newCreateOrderFixture(t)
	mock.InOrder(
		f.factory.On("Create").Return(f.uow).Once(),
		f.uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	_, err := f.handler.Handle(ctx, cmd)
	require.Error(t, err)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyNormal, true)

	f := newCreateOrderFixture(t)
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, mock.Anything).Return(errors.New("add error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, cmd)

	require.Error(t, err)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), validDetails(), order.UrgencyNormal, false)

	f := newCreateOrderFixture(t)
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Add", ctx, mock.Anything).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, cmd)

	require.Error(t, err)
	f.assertExpectations(t)
}
