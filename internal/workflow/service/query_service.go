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

// QueryService owns the lifecycle of query sub-tasks and their effect on the
// parent workflow: raising a query drives the workflow into the assigned
// team's pending state, and resolving the last open query returns it to
// plant review automatically.
type QueryService struct {
	db          *gorm.DB
	repo        WorkflowRepository
	ledger      *QueryLedger
	transitions *TransitionService
	publisher   events.Publisher
}

func NewQueryService(db *gorm.DB, repo WorkflowRepository, transitions *TransitionService, publisher events.Publisher) *QueryService {
	return &QueryService{
		db:          db,
		repo:        repo,
		ledger:      NewQueryLedger(),
		transitions: transitions,
		publisher:   publisher,
	}
}

// RaiseQuery creates an open query against a workflow in plant review and
// moves the workflow into the target team's pending state. Both happen in
// one transaction under the workflow's row lock.
func (s *QueryService) RaiseQuery(ctx context.Context, workflowID uuid.UUID, req *model.RaiseQueryDTO, actor string) (*model.Query, error) {
	target, ok := model.StateForTeam(req.Team)
	if !ok {
		return nil, fmt.Errorf("unknown query team: %s", req.Team)
	}

	var query *model.Query
	var from model.WorkflowState

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workflow, err := s.repo.GetWorkflowByIDForUpdateInTx(ctx, tx, workflowID)
		if err != nil {
			return err
		}
		if workflow.State != model.WorkflowStatePendingPlant {
			return &model.InvalidQueryContextError{State: workflow.State}
		}

		query = &model.Query{
			WorkflowID: workflow.ID,
			Question:   req.Question,
			Team:       req.Team,
			Status:     model.QueryStatusOpen,
			Category:   req.Category,
			Priority:   req.Priority,
			RaisedBy:   actor,
		}
		if query.Category == "" {
			query.Category = model.QueryCategoryOther
		}
		if query.Priority == "" {
			query.Priority = workflow.Priority
		}
		if err := s.repo.CreateQueryInTx(ctx, tx, query); err != nil {
			return err
		}

		from, err = s.transitions.applyTransitionInTx(ctx, tx, workflow, target, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.QueryRaised(query.WorkflowID, query.ID, query.Team, actor))
	s.publisher.Publish(events.StateChanged(query.WorkflowID, from, target, actor))
	return query, nil
}

// ResolveQuery marks an open query resolved. Resolving an already-resolved
// query is an error so callers can tell duplicates from new resolutions.
// When the last open query of the workflow resolves, the workflow returns to
// plant review in the same transaction.
func (s *QueryService) ResolveQuery(ctx context.Context, queryID uuid.UUID, response string, actor string) (*model.Query, error) {
	// Unlocked read to find the owning workflow; the authoritative status
	// check happens below, after the workflow row is locked.
	stale, err := s.repo.GetQueryByID(ctx, queryID)
	if err != nil {
		return nil, err
	}

	var query *model.Query
	var returned bool
	var from model.WorkflowState

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workflow, err := s.repo.GetWorkflowByIDForUpdateInTx(ctx, tx, stale.WorkflowID)
		if err != nil {
			return err
		}

		query, err = s.repo.GetQueryByIDInTx(ctx, tx, queryID)
		if err != nil {
			return err
		}
		if query.Status == model.QueryStatusResolved {
			return &model.AlreadyResolvedError{QueryID: query.ID}
		}

		now := time.Now().UTC()
		query.Status = model.QueryStatusResolved
		query.Response = &response
		query.ResolvedBy = &actor
		query.ResolvedAt = &now
		query.UpdatedAt = now
		if err := s.repo.SaveQueryInTx(ctx, tx, query); err != nil {
			return err
		}

		queries, err := s.repo.GetQueriesByWorkflowIDInTx(ctx, tx, workflow.ID)
		if err != nil {
			return err
		}
		// If a concurrent resolution already returned the workflow to plant
		// review, the state check keeps this a no-op.
		if !s.ledger.HasOpenQueries(queries) && model.IsQueryState(workflow.State) {
			from, err = s.transitions.applyTransitionInTx(ctx, tx, workflow, model.WorkflowStatePendingPlant, actor)
			if err != nil {
				return err
			}
			returned = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.QueryResolved(query.WorkflowID, query.ID, query.Team, actor))
	if returned {
		s.publisher.Publish(events.StateChanged(query.WorkflowID, from, model.WorkflowStatePendingPlant, actor))
	}
	return query, nil
}

// ReassignQuery moves an open query to another specialist team and drives
// the workflow into that team's pending state when it is not there already.
// The graph has no direct edge between the two query states, so the change
// goes through plant review as two legal transitions.
func (s *QueryService) ReassignQuery(ctx context.Context, queryID uuid.UUID, newTeam model.QueryTeam, actor string) (*model.Query, error) {
	target, ok := model.StateForTeam(newTeam)
	if !ok {
		return nil, fmt.Errorf("unknown query team: %s", newTeam)
	}

	stale, err := s.repo.GetQueryByID(ctx, queryID)
	if err != nil {
		return nil, err
	}

	var query *model.Query
	type hop struct{ from, to model.WorkflowState }
	var hops []hop

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workflow, err := s.repo.GetWorkflowByIDForUpdateInTx(ctx, tx, stale.WorkflowID)
		if err != nil {
			return err
		}

		query, err = s.repo.GetQueryByIDInTx(ctx, tx, queryID)
		if err != nil {
			return err
		}
		if query.Status == model.QueryStatusResolved {
			return &model.AlreadyResolvedError{QueryID: query.ID}
		}

		query.Team = newTeam
		query.UpdatedAt = time.Now().UTC()
		if err := s.repo.SaveQueryInTx(ctx, tx, query); err != nil {
			return err
		}

		for workflow.State != target {
			next := target
			if model.IsQueryState(workflow.State) {
				next = model.WorkflowStatePendingPlant
			}
			from, err := s.transitions.applyTransitionInTx(ctx, tx, workflow, next, actor)
			if err != nil {
				return err
			}
			hops = append(hops, hop{from: from, to: next})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.QueryReassigned(query.WorkflowID, query.ID, newTeam, actor))
	for _, h := range hops {
		s.publisher.Publish(events.StateChanged(query.WorkflowID, h.from, h.to, actor))
	}
	return query, nil
}

// ResolveQueries resolves a batch of queries independently. A failure on one
// item does not abort the others; the caller receives a per-item result.
func (s *QueryService) ResolveQueries(ctx context.Context, items []model.BulkResolveItemDTO, actor string) []model.QueryResolutionResult {
	results := make([]model.QueryResolutionResult, 0, len(items))
	for _, item := range items {
		query, err := s.ResolveQuery(ctx, item.QueryID, item.Response, actor)
		result := model.QueryResolutionResult{QueryID: item.QueryID, Query: query, Err: err}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// GetQueriesByWorkflowID returns all queries owned by a workflow.
func (s *QueryService) GetQueriesByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]model.Query, error) {
	if _, err := s.repo.GetWorkflowByID(ctx, workflowID); err != nil {
		return nil, err
	}
	return s.repo.GetQueriesByWorkflowID(ctx, workflowID)
}

// GetTeamInbox returns a specialist team's open queries, oldest first.
func (s *QueryService) GetTeamInbox(ctx context.Context, team model.QueryTeam) ([]model.Query, error) {
	if _, ok := model.StateForTeam(team); !ok {
		return nil, fmt.Errorf("unknown query team: %s", team)
	}
	return s.repo.GetOpenQueriesByTeam(ctx, team)
}
