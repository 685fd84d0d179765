package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// WorkflowService handles workflow initiation and read-side queries. SLA
// annotations (days pending, overdue) are computed on read; there is no
// background sweep.
type WorkflowService struct {
	repo   WorkflowRepository
	ledger *QueryLedger
	clock  *SlaClock
}

func NewWorkflowService(repo WorkflowRepository, clock *SlaClock) *WorkflowService {
	return &WorkflowService{
		repo:   repo,
		ledger: NewQueryLedger(),
		clock:  clock,
	}
}

// InitiateWorkflow creates a routing instance for a project/material/plant/
// block combination. One workflow per combination; a second initiation for
// the same key is rejected.
func (s *WorkflowService) InitiateWorkflow(ctx context.Context, req *model.CreateWorkflowDTO, actor string) (*model.Workflow, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if actor == "" {
		return nil, fmt.Errorf("initiator cannot be empty")
	}

	existing, err := s.repo.GetWorkflowByBusinessKey(ctx, req.ProjectCode, req.MaterialCode, req.PlantCode, req.BlockCode)
	if err != nil {
		var notFound *model.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return nil, &model.DuplicateWorkflowError{
			ProjectCode:  req.ProjectCode,
			MaterialCode: req.MaterialCode,
			PlantCode:    req.PlantCode,
			BlockCode:    req.BlockCode,
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.WorkflowPriorityNormal
	}

	workflow := &model.Workflow{
		ProjectCode:    req.ProjectCode,
		MaterialCode:   req.MaterialCode,
		PlantCode:      req.PlantCode,
		BlockCode:      req.BlockCode,
		MaterialName:   req.MaterialName,
		Priority:       priority,
		State:          model.WorkflowStatePendingProject,
		InitiatedBy:    actor,
		LastModifiedBy: actor,
	}
	if err := s.repo.CreateWorkflow(ctx, workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

// GetWorkflow returns one workflow annotated with SLA data.
func (s *WorkflowService) GetWorkflow(ctx context.Context, workflowID uuid.UUID) (*model.WorkflowResponseDTO, error) {
	workflow, err := s.repo.GetWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	queries, err := s.repo.GetQueriesByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	response := s.annotate(workflow, queries, time.Now().UTC())
	return &response, nil
}

// ListWorkflows returns a page of workflows annotated with SLA data. The
// page's queries are loaded in a single round trip.
func (s *WorkflowService) ListWorkflows(ctx context.Context, offset, limit int) ([]model.WorkflowResponseDTO, error) {
	workflows, err := s.repo.ListWorkflows(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(workflows))
	for i := range workflows {
		ids[i] = workflows[i].ID
	}
	queries, err := s.repo.GetQueriesByWorkflowIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	queriesByWorkflow := make(map[uuid.UUID][]model.Query, len(workflows))
	for _, q := range queries {
		queriesByWorkflow[q.WorkflowID] = append(queriesByWorkflow[q.WorkflowID], q)
	}

	now := time.Now().UTC()
	responses := make([]model.WorkflowResponseDTO, 0, len(workflows))
	for i := range workflows {
		responses = append(responses, s.annotate(&workflows[i], queriesByWorkflow[workflows[i].ID], now))
	}
	return responses, nil
}

// DaysPending exposes the SLA clock for one workflow.
func (s *WorkflowService) DaysPending(ctx context.Context, workflowID uuid.UUID, now time.Time) (int, error) {
	workflow, queries, err := s.load(ctx, workflowID)
	if err != nil {
		return 0, err
	}
	return s.clock.DaysPending(workflow, queries, now), nil
}

// IsOverdue exposes the overdue flag for one workflow.
func (s *WorkflowService) IsOverdue(ctx context.Context, workflowID uuid.UUID, now time.Time) (bool, error) {
	workflow, queries, err := s.load(ctx, workflowID)
	if err != nil {
		return false, err
	}
	return s.clock.IsOverdue(workflow, queries, now), nil
}

// HasOpenQueries reports whether a workflow still owns open queries.
func (s *WorkflowService) HasOpenQueries(ctx context.Context, workflowID uuid.UUID) (bool, error) {
	_, queries, err := s.load(ctx, workflowID)
	if err != nil {
		return false, err
	}
	return s.ledger.HasOpenQueries(queries), nil
}

func (s *WorkflowService) load(ctx context.Context, workflowID uuid.UUID) (*model.Workflow, []model.Query, error) {
	workflow, err := s.repo.GetWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, nil, err
	}
	queries, err := s.repo.GetQueriesByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, nil, err
	}
	return workflow, queries, nil
}

func (s *WorkflowService) annotate(workflow *model.Workflow, queries []model.Query, now time.Time) model.WorkflowResponseDTO {
	return model.WorkflowResponseDTO{
		Workflow:       *workflow,
		OpenQueryCount: s.ledger.OpenQueryCount(queries),
		DaysPending:    s.clock.DaysPending(workflow, queries, now),
		Overdue:        s.clock.IsOverdue(workflow, queries, now),
	}
}
