package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/OpenMSDQ/msdq/internal/events"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// setupTestDB returns a GORM handle backed by sqlmock. The repository is
// mocked separately, so most tests only expect the transaction begin/commit
// pair on this handle.
func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, sqlMock
}

// capturePublisher records published events in order.
type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(event events.Event) {
	p.events = append(p.events, event)
}

// MockWorkflowRepository
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) CreateWorkflow(ctx context.Context, workflow *model.Workflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) GetWorkflowByID(ctx context.Context, id uuid.UUID) (*model.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) GetWorkflowByIDForUpdateInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Workflow, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) GetWorkflowByBusinessKey(ctx context.Context, projectCode, materialCode, plantCode, blockCode string) (*model.Workflow, error) {
	args := m.Called(ctx, projectCode, materialCode, plantCode, blockCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) SaveWorkflowInTx(ctx context.Context, tx *gorm.DB, workflow *model.Workflow) error {
	args := m.Called(ctx, tx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) ListWorkflows(ctx context.Context, offset, limit int) ([]model.Workflow, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) CreateQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error {
	args := m.Called(ctx, tx, query)
	return args.Error(0)
}

func (m *MockWorkflowRepository) GetQueryByID(ctx context.Context, id uuid.UUID) (*model.Query, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Query), args.Error(1)
}

func (m *MockWorkflowRepository) GetQueryByIDInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Query, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Query), args.Error(1)
}

func (m *MockWorkflowRepository) SaveQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error {
	args := m.Called(ctx, tx, query)
	return args.Error(0)
}

func (m *MockWorkflowRepository) GetQueriesByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]model.Query, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Query), args.Error(1)
}

func (m *MockWorkflowRepository) GetQueriesByWorkflowIDInTx(ctx context.Context, tx *gorm.DB, workflowID uuid.UUID) ([]model.Query, error) {
	args := m.Called(ctx, tx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Query), args.Error(1)
}

func (m *MockWorkflowRepository) GetQueriesByWorkflowIDs(ctx context.Context, workflowIDs []uuid.UUID) ([]model.Query, error) {
	args := m.Called(ctx, workflowIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Query), args.Error(1)
}

func (m *MockWorkflowRepository) GetOpenQueriesByTeam(ctx context.Context, team model.QueryTeam) ([]model.Query, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Query), args.Error(1)
}
