package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/order/ordertest"
)

type GetActiveOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetActiveOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.handler = queries.NewGetActiveOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, nil)
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) addOrder(status order.Status, opts ...ordertest.Option) *order.Order {
	id := kernel.NewUUID()
	opts = append([]ordertest.Option{ordertest.With(func(s *order.State) {
		s.ID = id
		s.Number = "ORD-" + id.String()[:8]
	})}, opts...)
	o := ordertest.Restore(suite.T(), status, opts...)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveOrdersQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TestHandle_SkipsTerminalOrders() {
	suite.addOrder(order.Completed)
	suite.addOrder(order.Cancelled)
	suite.addOrder(order.Refunded)
	active := suite.addOrder(order.Submitted)

	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveOrdersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(active.ID().IsEqual(result[0].ID))
	suite.Equal(order.Submitted, result[0].Status)
	suite.Equal(ordertest.WriterID, result[0].WriterID)
	suite.Equal(active.TotalPrice(), result[0].TotalPrice)
	suite.Equal(active.Version(), result[0].Version)
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TestHandle_SortsByDeadline() {
	late := suite.addOrder(order.Late, ordertest.WithDeadline(ordertest.Now.Add(-2*time.Hour)),
		ordertest.With(func(s *order.State) { s.IsOverdue = true }))
	open := suite.addOrder(order.Available, ordertest.WithDeadline(ordertest.Now.Add(48*time.Hour)))

	result, err := suite.handler.Handle(context.Background(), queries.NewGetActiveOrdersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(late.ID().IsEqual(result[0].ID))
	suite.True(result[0].IsOverdue)
	suite.True(open.ID().IsEqual(result[1].ID))
	suite.Empty(result[1].WriterID)
	suite.True(open.Deadline().Equal(result[1].Deadline))
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetActiveOrdersQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetActiveOrdersQueryIsNotConstructed)
	suite.Nil(result)
}

func (suite *GetActiveOrdersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.addOrder(order.Available)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, queries.NewGetActiveOrdersQuery())

	suite.Require().Error(err)
	suite.Nil(result)
}

func TestGetActiveOrdersQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GetActiveOrdersQueryHandlerTestSuite))
}
