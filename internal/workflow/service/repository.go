package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// WorkflowRepository is the persistence contract consumed by the workflow
// services. Methods with the InTx suffix run inside a caller-owned
// transaction; ForUpdate variants take a row lock so each workflow aggregate
// has a single writer at a time.
type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, workflow *model.Workflow) error
	GetWorkflowByID(ctx context.Context, id uuid.UUID) (*model.Workflow, error)
	GetWorkflowByIDForUpdateInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Workflow, error)
	GetWorkflowByBusinessKey(ctx context.Context, projectCode, materialCode, plantCode, blockCode string) (*model.Workflow, error)
	SaveWorkflowInTx(ctx context.Context, tx *gorm.DB, workflow *model.Workflow) error
	ListWorkflows(ctx context.Context, offset, limit int) ([]model.Workflow, error)

	CreateQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error
	GetQueryByID(ctx context.Context, id uuid.UUID) (*model.Query, error)
	GetQueryByIDInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Query, error)
	SaveQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error
	GetQueriesByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]model.Query, error)
	GetQueriesByWorkflowIDInTx(ctx context.Context, tx *gorm.DB, workflowID uuid.UUID) ([]model.Query, error)
	GetQueriesByWorkflowIDs(ctx context.Context, workflowIDs []uuid.UUID) ([]model.Query, error)
	GetOpenQueriesByTeam(ctx context.Context, team model.QueryTeam) ([]model.Query, error)
}

// WorkflowStore is the GORM-backed WorkflowRepository.
type WorkflowStore struct {
	db *gorm.DB
}

func NewWorkflowStore(db *gorm.DB) *WorkflowStore {
	return &WorkflowStore{db: db}
}

// CreateWorkflow persists a new workflow aggregate.
func (s *WorkflowStore) CreateWorkflow(ctx context.Context, workflow *model.Workflow) error {
	if err := s.db.WithContext(ctx).Create(workflow).Error; err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	return nil
}

// GetWorkflowByID retrieves a workflow without locking it.
func (s *WorkflowStore) GetWorkflowByID(ctx context.Context, id uuid.UUID) (*model.Workflow, error) {
	var workflow model.Workflow
	result := s.db.WithContext(ctx).First(&workflow, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "workflow", ID: id}
		}
		return nil, fmt.Errorf("failed to retrieve workflow: %w", result.Error)
	}
	return &workflow, nil
}

// GetWorkflowByIDForUpdateInTx retrieves a workflow with a row-level lock.
// All mutations of a workflow and its queries go through this lock.
func (s *WorkflowStore) GetWorkflowByIDForUpdateInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Workflow, error) {
	var workflow model.Workflow
	result := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&workflow, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "workflow", ID: id}
		}
		return nil, fmt.Errorf("failed to lock workflow: %w", result.Error)
	}
	return &workflow, nil
}

// GetWorkflowByBusinessKey retrieves a workflow by its composite business key.
func (s *WorkflowStore) GetWorkflowByBusinessKey(ctx context.Context, projectCode, materialCode, plantCode, blockCode string) (*model.Workflow, error) {
	var workflow model.Workflow
	result := s.db.WithContext(ctx).First(&workflow,
		"project_code = ? AND material_code = ? AND plant_code = ? AND block_code = ?",
		projectCode, materialCode, plantCode, blockCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "workflow", ID: uuid.Nil}
		}
		return nil, fmt.Errorf("failed to retrieve workflow by business key: %w", result.Error)
	}
	return &workflow, nil
}

// SaveWorkflowInTx persists workflow mutations inside the caller's transaction.
func (s *WorkflowStore) SaveWorkflowInTx(ctx context.Context, tx *gorm.DB, workflow *model.Workflow) error {
	if err := tx.WithContext(ctx).Save(workflow).Error; err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	return nil
}

// ListWorkflows returns a page of workflows, newest first.
func (s *WorkflowStore) ListWorkflows(ctx context.Context, offset, limit int) ([]model.Workflow, error) {
	var workflows []model.Workflow
	result := s.db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&workflows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", result.Error)
	}
	return workflows, nil
}

// CreateQueryInTx persists a new query inside the caller's transaction.
func (s *WorkflowStore) CreateQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error {
	if err := tx.WithContext(ctx).Create(query).Error; err != nil {
		return fmt.Errorf("failed to create query: %w", err)
	}
	return nil
}

// GetQueryByID retrieves a query without locking it.
func (s *WorkflowStore) GetQueryByID(ctx context.Context, id uuid.UUID) (*model.Query, error) {
	var query model.Query
	result := s.db.WithContext(ctx).First(&query, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "query", ID: id}
		}
		return nil, fmt.Errorf("failed to retrieve query: %w", result.Error)
	}
	return &query, nil
}

// GetQueryByIDInTx re-reads a query inside the caller's transaction. Called
// after the owning workflow row is locked, so the status seen here is
// authoritative.
func (s *WorkflowStore) GetQueryByIDInTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Query, error) {
	var query model.Query
	result := tx.WithContext(ctx).First(&query, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Kind: "query", ID: id}
		}
		return nil, fmt.Errorf("failed to retrieve query: %w", result.Error)
	}
	return &query, nil
}

// SaveQueryInTx persists query mutations inside the caller's transaction.
func (s *WorkflowStore) SaveQueryInTx(ctx context.Context, tx *gorm.DB, query *model.Query) error {
	if err := tx.WithContext(ctx).Save(query).Error; err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// GetQueriesByWorkflowID retrieves all queries owned by a workflow.
func (s *WorkflowStore) GetQueriesByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]model.Query, error) {
	var queries []model.Query
	result := s.db.WithContext(ctx).Where("workflow_id = ?", workflowID).Find(&queries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve queries: %w", result.Error)
	}
	return queries, nil
}

// GetQueriesByWorkflowIDInTx retrieves all queries owned by a workflow inside
// the caller's transaction.
func (s *WorkflowStore) GetQueriesByWorkflowIDInTx(ctx context.Context, tx *gorm.DB, workflowID uuid.UUID) ([]model.Query, error) {
	var queries []model.Query
	result := tx.WithContext(ctx).Where("workflow_id = ?", workflowID).Find(&queries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve queries: %w", result.Error)
	}
	return queries, nil
}

// GetQueriesByWorkflowIDs retrieves the queries of several workflows in one
// round trip, for list-page SLA annotation.
func (s *WorkflowStore) GetQueriesByWorkflowIDs(ctx context.Context, workflowIDs []uuid.UUID) ([]model.Query, error) {
	if len(workflowIDs) == 0 {
		return []model.Query{}, nil
	}
	var queries []model.Query
	result := s.db.WithContext(ctx).Where("workflow_id IN ?", workflowIDs).Find(&queries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve queries: %w", result.Error)
	}
	return queries, nil
}

// GetOpenQueriesByTeam returns a specialist team's inbox, oldest first.
func (s *WorkflowStore) GetOpenQueriesByTeam(ctx context.Context, team model.QueryTeam) ([]model.Query, error) {
	var queries []model.Query
	result := s.db.WithContext(ctx).
		Where("team = ? AND status = ?", team, model.QueryStatusOpen).
		Order("created_at asc").
		Find(&queries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve open queries for team: %w", result.Error)
	}
	return queries, nil
}
