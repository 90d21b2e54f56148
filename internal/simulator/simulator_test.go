package simulator

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"webshop/internal/config"
	"webshop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetProduct(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockOrderRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error) {
	args := m.Called(ctx, tx, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) InsertOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) InsertTracking(ctx context.Context, tx pgx.Tx, entry *model.OrderTracking) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus) (bool, error) {
	args := m.Called(ctx, tx, orderID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetTracking(ctx context.Context, orderID int64) ([]model.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderTracking), args.Error(1)
}

func (m *MockOrderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) LatestTracking(ctx context.Context, orderID int64) (*model.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderTracking), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// newTestSimulator builds a simulator with a fixed advance probability and a
// seeded rng. Probability 1 always advances, probability 0 always repeats.
func newTestSimulator(repo *MockOrderRepository, batchSize int, advanceProb float64) *Simulator {
	cfg := config.SimulatorConfig{
		IntervalSeconds:    60,
		BatchSize:          batchSize,
		AdvanceProbability: advanceProb,
	}
	s := New(repo, cfg, zerolog.Nop())
	s.rng = rand.New(rand.NewSource(1))
	return s
}

func TestSimulator_Advance_MovesOneStep(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("LatestTracking", ctx, int64(1)).
		Return(&model.OrderTracking{OrderID: 1, Status: model.TrackingStatusProcessing}, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.MatchedBy(func(e *model.OrderTracking) bool {
		return e.OrderID == 1 &&
			e.Status == model.TrackingStatusShipped &&
			e.Location != "" &&
			e.Details != ""
	})).Return(nil)
	mockRepo.On("UpdateStatus", ctx, mockTx, int64(1), model.OrderStatusShipped).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	err := s.advance(ctx, 1)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestSimulator_Advance_RepeatsCurrentStatus(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 0.0)

	mockRepo.On("LatestTracking", ctx, int64(1)).
		Return(&model.OrderTracking{OrderID: 1, Status: model.TrackingStatusShipped}, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.MatchedBy(func(e *model.OrderTracking) bool {
		return e.Status == model.TrackingStatusShipped
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	err := s.advance(ctx, 1)

	require.NoError(t, err)
	// A repeated status adds a tracking entry but never touches the header.
	mockRepo.AssertNotCalled(t, "UpdateStatus")
	mockRepo.AssertExpectations(t)
}

func TestSimulator_Advance_NoTrackingDefaultsToPending(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("LatestTracking", ctx, int64(5)).Return(nil, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.MatchedBy(func(e *model.OrderTracking) bool {
		return e.Status == model.TrackingStatusProcessing
	})).Return(nil)
	mockRepo.On("UpdateStatus", ctx, mockTx, int64(5), model.OrderStatusProcessing).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	err := s.advance(ctx, 5)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSimulator_Advance_OutForDeliveryMapsToShipped(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("LatestTracking", ctx, int64(1)).
		Return(&model.OrderTracking{OrderID: 1, Status: model.TrackingStatusShipped}, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.MatchedBy(func(e *model.OrderTracking) bool {
		return e.Status == model.TrackingStatusOutForDelivery
	})).Return(nil)
	// out_for_delivery has no header equivalent; the header stays shipped.
	mockRepo.On("UpdateStatus", ctx, mockTx, int64(1), model.OrderStatusShipped).Return(true, nil)
	mockTx.On("Commit", ctx).Return(nil)

	err := s.advance(ctx, 1)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSimulator_Advance_RollsBackOnInsertFailure(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("LatestTracking", ctx, int64(1)).Return(nil, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.Anything).Return(errors.New("insert failed"))
	mockTx.On("Rollback", ctx).Return(nil)

	err := s.advance(ctx, 1)

	require.Error(t, err)
	mockTx.AssertNotCalled(t, "Commit")
	mockTx.AssertCalled(t, "Rollback", ctx)
}

func TestSimulator_Tick_AdvancesAtMostBatchSize(t *testing.T) {
	ctx := context.Background()

	orders := []model.Order{
		{ID: 1, Status: model.OrderStatusPending},
		{ID: 2, Status: model.OrderStatusPending},
		{ID: 3, Status: model.OrderStatusProcessing},
		{ID: 4, Status: model.OrderStatusShipped},
		{ID: 5, Status: model.OrderStatusPending},
	}

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 3, 0.0)

	mockRepo.On("ListActive", ctx).Return(orders, nil)
	mockRepo.On("LatestTracking", ctx, mock.AnythingOfType("int64")).Return(nil, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.Anything).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	s.Tick(ctx)

	mockRepo.AssertNumberOfCalls(t, "InsertTracking", 3)
}

func TestSimulator_Tick_NoActiveOrders(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("ListActive", ctx).Return([]model.Order{}, nil)

	s.Tick(ctx)

	mockRepo.AssertNotCalled(t, "BeginTx")
}

func TestSimulator_Tick_SurvivesListError(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockOrderRepository)
	s := newTestSimulator(mockRepo, 3, 1.0)

	mockRepo.On("ListActive", ctx).Return(nil, errors.New("connection refused"))

	// Must not panic; the error is logged and the tick abandoned.
	s.Tick(ctx)

	mockRepo.AssertNotCalled(t, "LatestTracking")
}

func TestSimulator_Tick_OneBadOrderDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()

	orders := []model.Order{
		{ID: 1, Status: model.OrderStatusPending},
		{ID: 2, Status: model.OrderStatusPending},
	}

	mockRepo := new(MockOrderRepository)
	mockTx := new(MockTx)
	s := newTestSimulator(mockRepo, 2, 0.0)

	mockRepo.On("ListActive", ctx).Return(orders, nil)
	// One order fails before its transaction even starts.
	mockRepo.On("LatestTracking", ctx, mock.AnythingOfType("int64")).
		Return(nil, errors.New("lookup failed")).Once()
	mockRepo.On("LatestTracking", ctx, mock.AnythingOfType("int64")).Return(nil, nil)
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockRepo.On("InsertTracking", ctx, mockTx, mock.Anything).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	s.Tick(ctx)

	// The surviving order still gets its tracking entry.
	mockRepo.AssertNumberOfCalls(t, "InsertTracking", 1)
}

func TestRandomMessage_MatchesStatus(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for status, messages := range statusMessages {
		msg := randomMessage(rng, status)
		assert.Contains(t, messages, msg, "status %s", status)
	}
}

func TestSimulator_StartStop(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	s := newTestSimulator(mockRepo, 3, 1.0)

	s.Start(context.Background())
	s.Stop()

	// A 60s interval never ticks within the test's lifetime.
	mockRepo.AssertNotCalled(t, "ListActive")
}
