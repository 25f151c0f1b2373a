package queries_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/adapters/out/postgres/orderrepo"
	"shop/internal/adapters/out/postgres/userrepo"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/domain/model/user"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
	userRepo  *userrepo.GormUserRepository

	customer *user.User
	admin    *user.User
}

func (suite *GetOrdersQueryHandlerTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&orderrepo.HistoryEntryDTO{},
		&userrepo.UserDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.userRepo = userrepo.NewGormUserRepository(db)
}

func (suite *GetOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_lines, order_status_history, users CASCADE").Error
	suite.Require().NoError(err)

	ctx := context.Background()

	suite.customer, err = user.NewUser(kernel.NewUUID(), "Casey Customer", "casey@example.com", false)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.userRepo.Add(ctx, suite.customer))

	suite.admin, err = user.NewUser(kernel.NewUUID(), "Avery Admin", "avery@example.com", true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.userRepo.Add(ctx, suite.admin))
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query := suite.queryFor(suite.admin)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_Admin_SeesAllOrdersWithCustomerNames() {
	customerOrder := suite.createOrderFor(suite.customer, "10.00", 2)
	adminOrder := suite.createOrderFor(suite.admin, "3.50", 1)

	result, err := suite.handler.Handle(context.Background(), suite.queryFor(suite.admin))

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	byID := make(map[string]queries.GetOrdersQueryResponse)
	for _, r := range result {
		byID[r.ID.String()] = r
	}

	got, ok := byID[customerOrder.ID().String()]
	suite.Require().True(ok)
	suite.Equal("Casey Customer", got.CustomerName)
	suite.Equal(order.Pending, got.Status)
	suite.True(got.TotalAmount.IsEqual(customerOrder.TotalAmount()))
	suite.Require().Len(got.Lines, 1)
	suite.Equal(2, got.Lines[0].Quantity)

	got, ok = byID[adminOrder.ID().String()]
	suite.Require().True(ok)
	suite.Equal("Avery Admin", got.CustomerName)
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_Customer_SeesOnlyOwnOrders() {
	ownOrder := suite.createOrderFor(suite.customer, "10.00", 2)
	suite.createOrderFor(suite.admin, "3.50", 1)

	result, err := suite.handler.Handle(context.Background(), suite.queryFor(suite.customer))

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(ownOrder.ID()))
	suite.True(result[0].CustomerID.IsEqual(suite.customer.ID()))
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrdersQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetOrdersQuery constructor")
}

func (suite *GetOrdersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.createOrderFor(suite.customer, "10.00", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, suite.queryFor(suite.customer))

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *GetOrdersQueryHandlerTestSuite) queryFor(account *user.User) queries.GetOrdersQuery {
	actor, err := account.Identity()
	suite.Require().NoError(err)

	query, err := queries.NewGetOrdersQuery(actor)
	suite.Require().NoError(err)

	return query
}

func (suite *GetOrdersQueryHandlerTestSuite) createOrderFor(
	account *user.User, unitPrice string, quantity int,
) *order.Order {
	price, err := kernel.MoneyFromString(unitPrice)
	suite.Require().NoError(err)

	line, err := order.NewLine(kernel.NewUUID(), quantity, price)
	suite.Require().NoError(err)

	newOrder, err := order.NewOrder(kernel.NewUUID(), account.ID(), []order.Line{line})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.orderRepo.Add(context.Background(), newOrder))
	return newOrder
}

func TestGetOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrdersQueryHandlerTestSuite))
}

// mockAggregateTracker satisfies the repository's tracker dependency.
// Query tests don't need aggregate tracking.
type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}
