package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenMSDQ/msdq/internal/events"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// TransitionService is the only authorized path for mutating workflow state.
// Every transition runs in a transaction holding a row lock on the workflow,
// so a workflow and its queries have one writer at a time. Events are
// published after commit and delivery failures never roll anything back.
type TransitionService struct {
	db        *gorm.DB
	repo      WorkflowRepository
	ledger    *QueryLedger
	publisher events.Publisher
}

func NewTransitionService(db *gorm.DB, repo WorkflowRepository, publisher events.Publisher) *TransitionService {
	return &TransitionService{
		db:        db,
		repo:      repo,
		ledger:    NewQueryLedger(),
		publisher: publisher,
	}
}

// RequestTransition validates the requested state change against the fixed
// graph and the query ledger, applies it, and publishes a StateChanged
// event. Business-rule rejections come back as the typed errors in the
// model package.
func (s *TransitionService) RequestTransition(ctx context.Context, workflowID uuid.UUID, target model.WorkflowState, actor string) (*model.Workflow, error) {
	var workflow *model.Workflow
	var from model.WorkflowState

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		workflow, err = s.repo.GetWorkflowByIDForUpdateInTx(ctx, tx, workflowID)
		if err != nil {
			return err
		}
		from, err = s.applyTransitionInTx(ctx, tx, workflow, target, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.StateChanged(workflow.ID, from, target, actor))
	return workflow, nil
}

// applyTransitionInTx validates and applies a transition on an already
// locked workflow. The query service reuses it to drive transitions inside
// its own transactions; callers publish StateChanged after commit using the
// returned from-state.
func (s *TransitionService) applyTransitionInTx(ctx context.Context, tx *gorm.DB, workflow *model.Workflow, target model.WorkflowState, actor string) (model.WorkflowState, error) {
	from := workflow.State

	if !model.CanTransitionTo(from, target) {
		return from, &model.InvalidTransitionError{From: from, To: target}
	}

	if target == model.WorkflowStateCompleted {
		queries, err := s.repo.GetQueriesByWorkflowIDInTx(ctx, tx, workflow.ID)
		if err != nil {
			return from, err
		}
		if count := s.ledger.OpenQueryCount(queries); count > 0 {
			return from, &model.OpenQueriesRemainError{Count: count}
		}
	}

	now := time.Now().UTC()
	workflow.State = target
	workflow.LastModifiedBy = actor
	workflow.UpdatedAt = now
	if target == model.WorkflowStatePendingPlant && workflow.PlantEnteredAt == nil {
		workflow.PlantEnteredAt = &now
	}
	if target == model.WorkflowStateCompleted {
		workflow.CompletedAt = &now
	}

	if err := s.repo.SaveWorkflowInTx(ctx, tx, workflow); err != nil {
		return from, err
	}
	return from, nil
}

// ExtendToPlant moves a freshly initiated workflow into plant review.
func (s *TransitionService) ExtendToPlant(ctx context.Context, workflowID uuid.UUID, actor string) (*model.Workflow, error) {
	return s.RequestTransition(ctx, workflowID, model.WorkflowStatePendingPlant, actor)
}

// Complete closes a workflow. Fails while any query is still open.
func (s *TransitionService) Complete(ctx context.Context, workflowID uuid.UUID, actor string) (*model.Workflow, error) {
	return s.RequestTransition(ctx, workflowID, model.WorkflowStateCompleted, actor)
}

// EnterQueryState moves a workflow into the pending state of the given
// specialist team.
func (s *TransitionService) EnterQueryState(ctx context.Context, workflowID uuid.UUID, team model.QueryTeam, actor string) (*model.Workflow, error) {
	target, ok := model.StateForTeam(team)
	if !ok {
		return nil, fmt.Errorf("unknown query team: %s", team)
	}
	return s.RequestTransition(ctx, workflowID, target, actor)
}

// ReturnFromQueryState moves a workflow back into plant review.
func (s *TransitionService) ReturnFromQueryState(ctx context.Context, workflowID uuid.UUID, actor string) (*model.Workflow, error) {
	return s.RequestTransition(ctx, workflowID, model.WorkflowStatePendingPlant, actor)
}
