package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	ordererrors "github.com/ecomworks/orderflow/internal/order/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stretchr/testify/suite"
)

const skipIntegrationTests = "ORDER_SVC_SKIP_INTEGRATION_TESTS"

// OrderStoreSuite is a test suite for the OrderStore implementation.
type OrderStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       OrderStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container and applies the service migrations.
func (s *OrderStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "orders_db"
	dbUser := "user"
	dbPassword := "password"

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../../migrations/order_service")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *OrderStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest truncates the orders tables before each test.
func (s *OrderStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE orders RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate orders table")
}

func TestOrderStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(OrderStoreSuite))
}

// createTestOrder is a helper function to create an order for testing purposes.
func (s *OrderStoreSuite) createTestOrder(orderParams *CreateOrderParams, lineParams *[]CreateOrderLineParams) (*Order, *[]OrderLine) {
	s.T().Helper()
	order, lines, err := s.store.CreateOrder(s.ctx, orderParams, lineParams)
	require.NoError(s.T(), err, "createTestOrder helper failed to create order")
	return order, lines
}

func (s *OrderStoreSuite) TestCreate() {
	s.SetupTest()
	// given
	orderToCreate := CreateOrderParams{
		Reference:     "ORD-2026-001",
		PaymentMethod: "cash",
		CustomerID:    uuid.New(),
	}
	linesToCreate := []CreateOrderLineParams{
		{ProductID: uuid.New(), Quantity: 2, LineNo: 0},
		{ProductID: uuid.New(), Quantity: 1, LineNo: 1},
		{ProductID: uuid.New(), Quantity: 5, LineNo: 2},
	}

	// when
	createdOrder, createdLines := s.createTestOrder(&orderToCreate, &linesToCreate)

	// then
	require.NotZero(s.T(), createdOrder.ID, "Created order ID should not be zero")
	require.Equal(s.T(), orderToCreate.Reference, createdOrder.Reference)
	require.Equal(s.T(), orderToCreate.PaymentMethod, createdOrder.PaymentMethod)
	require.Equal(s.T(), orderToCreate.CustomerID, createdOrder.CustomerID)
	require.Zero(s.T(), createdOrder.TotalAmount, "TotalAmount stays zero until the order is priced")
	require.NotZero(s.T(), *createdOrder.CreatedAt, "CreatedAt should be set")

	require.Len(s.T(), *createdLines, 3, "Should create one line per product")
	for i, line := range *createdLines {
		require.NotZero(s.T(), line.ID)
		require.Equal(s.T(), createdOrder.ID, line.OrderID)
		require.Equal(s.T(), linesToCreate[i].ProductID, line.ProductID)
		require.Equal(s.T(), linesToCreate[i].Quantity, line.Quantity)
		require.Equal(s.T(), linesToCreate[i].LineNo, line.LineNo)
	}
}

// A failing line insert must roll back the whole order, header included.
func (s *OrderStoreSuite) TestCreate_LineFailureRollsBackHeader() {
	s.SetupTest()
	// given: duplicate line_no violates UNIQUE (order_id, line_no)
	orderToCreate := CreateOrderParams{
		Reference:     "ORD-2026-002",
		PaymentMethod: "cash",
		CustomerID:    uuid.New(),
	}
	linesToCreate := []CreateOrderLineParams{
		{ProductID: uuid.New(), Quantity: 1, LineNo: 0},
		{ProductID: uuid.New(), Quantity: 1, LineNo: 0},
	}

	// when
	_, _, err := s.store.CreateOrder(s.ctx, &orderToCreate, &linesToCreate)

	// then
	require.ErrorIs(s.T(), err, ordererrors.ErrCreateOrderLine)
	var count int
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT count(*) FROM orders").Scan(&count))
	require.Zero(s.T(), count, "Header must not survive a failed line insert")
}

func (s *OrderStoreSuite) TestFindByID() {
	s.SetupTest()
	// given: lines inserted in caller order
	linesToCreate := []CreateOrderLineParams{
		{ProductID: uuid.New(), Quantity: 2, LineNo: 0},
		{ProductID: uuid.New(), Quantity: 7, LineNo: 1},
	}
	createdOrder, createdLines := s.createTestOrder(&CreateOrderParams{
		Reference:     "ORD-2026-003",
		PaymentMethod: "credit_card",
		CustomerID:    uuid.New(),
	}, &linesToCreate)

	// when
	fetchedOrder, fetchedLines, err := s.store.FindByID(s.ctx, createdOrder.ID)

	// then
	require.NoError(s.T(), err, "FindByID should not return an error")
	require.Equal(s.T(), createdOrder.ID, fetchedOrder.ID)
	require.Equal(s.T(), createdOrder.Reference, fetchedOrder.Reference)
	require.Equal(s.T(), createdOrder.CustomerID, fetchedOrder.CustomerID)
	require.WithinDuration(s.T(), *createdOrder.CreatedAt, *fetchedOrder.CreatedAt, time.Second)

	require.Len(s.T(), *fetchedLines, len(linesToCreate))
	for i, line := range *fetchedLines {
		require.Equal(s.T(), (*createdLines)[i].ID, line.ID)
		require.Equal(s.T(), (*createdLines)[i].ProductID, line.ProductID)
		require.Equal(s.T(), (*createdLines)[i].Quantity, line.Quantity)
		require.Equal(s.T(), int32(i), line.LineNo, "Lines must come back in insertion order")
	}
}

func (s *OrderStoreSuite) TestFindByID_NotFound() {
	s.SetupTest()
	// given (no orders created)

	// when
	_, _, err := s.store.FindByID(s.ctx, uuid.New())

	// then
	require.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound, "Expected ErrOrderNotFound for non-existent order")
}

func (s *OrderStoreSuite) TestFindAll() {
	s.SetupTest()
	// given
	for i := 0; i < 3; i++ {
		s.createTestOrder(&CreateOrderParams{
			Reference:     "ORD-2026-1" + string(rune('0'+i)),
			PaymentMethod: "cash",
			CustomerID:    uuid.New(),
		}, &[]CreateOrderLineParams{{ProductID: uuid.New(), Quantity: 1, LineNo: 0}})
	}

	// when
	page, err := s.store.FindAll(s.ctx, &FindOrdersParams{Offset: 0, Limit: 2})
	require.NoError(s.T(), err)
	rest, err2 := s.store.FindAll(s.ctx, &FindOrdersParams{Offset: 2, Limit: 2})
	require.NoError(s.T(), err2)
	empty, err3 := s.store.FindAll(s.ctx, &FindOrdersParams{Offset: 10, Limit: 2})
	require.NoError(s.T(), err3)

	// then
	require.Len(s.T(), *page, 2)
	require.Len(s.T(), *rest, 1)
	require.Empty(s.T(), *empty)
}
