package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/adapters/out/postgres/orderrepo"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&orderrepo.HistoryEntryDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE orders, order_lines, order_status_history").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_PersistsWholeAggregate() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertCount("orders", 1)
	suite.assertCount("order_lines", 2)
	suite.assertCount("order_status_history", 1)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsAggregate() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(loaded.ID().IsEqual(testOrder.ID()))
	suite.True(loaded.CustomerID().IsEqual(testOrder.CustomerID()))
	suite.Equal(order.Pending, loaded.Status())
	suite.True(loaded.TotalAmount().IsEqual(testOrder.TotalAmount()))

	suite.Require().Len(loaded.Lines(), 2)
	suite.True(loaded.Lines()[0].ItemID().IsEqual(testOrder.Lines()[0].ItemID()))
	suite.Equal(testOrder.Lines()[0].Quantity(), loaded.Lines()[0].Quantity())
	suite.True(loaded.Lines()[0].UnitPrice().IsEqual(testOrder.Lines()[0].UnitPrice()))

	suite.Require().Len(loaded.History(), 1)
	suite.Nil(loaded.History()[0].FromStatus())
	suite.Equal(order.Pending, loaded.History()[0].ToStatus())
	suite.True(loaded.History()[0].ChangedBy().IsEqual(testOrder.CustomerID()))
	suite.True(loaded.History()[0].IsPersisted())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AfterTransition_AppendsHistoryOnly() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	admin := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(loaded.TransitionTo(order.Processing, admin))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Processing, reloaded.Status())
	suite.Require().Len(reloaded.History(), 2)

	first := reloaded.History()[0]
	suite.Nil(first.FromStatus())
	suite.Equal(order.Pending, first.ToStatus())

	second := reloaded.History()[1]
	suite.Require().NotNil(second.FromStatus())
	suite.Equal(order.Pending, *second.FromStatus())
	suite.Equal(order.Processing, second.ToStatus())
	suite.True(second.ChangedBy().IsEqual(admin))
	suite.True(second.IsPersisted())

	// lines are immutable and must survive the update untouched
	suite.assertCount("order_lines", 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_CalledTwice_DoesNotDuplicateHistory() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	admin := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.TransitionTo(order.Processing, admin))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	// a second update of a fully persisted aggregate must not re-insert
	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, reloaded))

	suite.assertCount("order_status_history", 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()

	err := suite.repository.Update(ctx, testOrder)

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_InsideTransaction_LoadsAggregate() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	tx := suite.db.WithContext(ctx).Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepo := orderrepo.NewGormOrderRepository(tx, suite.tracker)

	loaded, err := txRepo.GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(testOrder.ID()))
	suite.Require().Len(loaded.History(), 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_ConcurrentTransitions_SerializeOnRowLock() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	admin := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	first := suite.db.WithContext(ctx).Begin()
	suite.Require().NoError(first.Error)
	firstRepo := orderrepo.NewGormOrderRepository(first, suite.tracker)

	loaded, err := firstRepo.GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)

	secondResult := make(chan error, 1)
	go func() {
		second := suite.db.WithContext(ctx).Begin()
		if second.Error != nil {
			secondResult <- second.Error
			return
		}
		defer second.Rollback()

		secondRepo := orderrepo.NewGormOrderRepository(second, suite.tracker)
		contested, err := secondRepo.GetForUpdate(ctx, testOrder.ID())
		if err != nil {
			secondResult <- err
			return
		}
		secondResult <- contested.TransitionTo(order.Processing, admin)
	}()

	// the row lock must hold the second transaction until the first commits
	select {
	case err := <-secondResult:
		suite.Require().FailNowf("lock not honored", "second transaction finished early: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(loaded.TransitionTo(order.Processing, admin))
	suite.Require().NoError(firstRepo.Update(ctx, loaded))
	suite.Require().NoError(first.Commit().Error)

	// once unblocked, the second load sees the committed processing state
	// and the repeated pending->processing step is rejected
	select {
	case err := <-secondResult:
		suite.Require().Error(err)
		suite.ErrorIs(err, order.ErrIllegalTransition)
	case <-time.After(5 * time.Second):
		suite.Require().FailNow("second transaction never unblocked")
	}

	suite.assertCount("order_status_history", 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFullLifecycle_AllTransitionsPersisted() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	admin := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	for _, target := range []order.Status{order.Processing, order.Shipped, order.Delivered} {
		loaded, err := suite.repository.Get(ctx, testOrder.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(loaded.TransitionTo(target, admin))
		suite.Require().NoError(suite.repository.Update(ctx, loaded))
	}

	final, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Delivered, final.Status())
	suite.Require().Len(final.History(), 4)

	// chain is gap-free: each record picks up where the previous left off
	history := final.History()
	for i := 1; i < len(history); i++ {
		suite.Require().NotNil(history[i].FromStatus())
		suite.Equal(history[i-1].ToStatus(), *history[i].FromStatus())
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	price1, err := kernel.MoneyFromString("10.00")
	suite.Require().NoError(err)
	price2, err := kernel.MoneyFromString("5.50")
	suite.Require().NoError(err)

	line1, err := order.NewLine(kernel.NewUUID(), 2, price1)
	suite.Require().NoError(err)
	line2, err := order.NewLine(kernel.NewUUID(), 1, price2)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Line{line1, line2})
	suite.Require().NoError(err)

	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
