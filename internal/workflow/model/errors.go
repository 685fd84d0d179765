package model

import (
	"fmt"

	"github.com/google/uuid"
)

// The error types below are deterministic business-rule rejections. They are
// surfaced to the caller unchanged so the REST layer can map each kind to a
// 4xx response; they are never retried and never logged as system faults.

// InvalidTransitionError signals a requested state change that violates the
// fixed state graph.
type InvalidTransitionError struct {
	From WorkflowState
	To   WorkflowState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// OpenQueriesRemainError signals an attempted completion while the workflow
// still owns open queries.
type OpenQueriesRemainError struct {
	Count int
}

func (e *OpenQueriesRemainError) Error() string {
	return fmt.Sprintf("cannot complete workflow: %d open queries remain", e.Count)
}

// InvalidQueryContextError signals an attempt to raise a query while the
// workflow is outside plant review.
type InvalidQueryContextError struct {
	State WorkflowState
}

func (e *InvalidQueryContextError) Error() string {
	return fmt.Sprintf("queries may only be raised during plant review, workflow is %s", e.State)
}

// AlreadyResolvedError signals a second resolution attempt on a query.
// Idempotent callers may treat it as success-already-achieved, but it is an
// error here so audit can distinguish duplicates from new resolutions.
type AlreadyResolvedError struct {
	QueryID uuid.UUID
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("query %s is already resolved", e.QueryID)
}

// DuplicateWorkflowError signals an initiation attempt for a
// project/material/plant/block combination that already has a workflow.
type DuplicateWorkflowError struct {
	ProjectCode  string
	MaterialCode string
	PlantCode    string
	BlockCode    string
}

func (e *DuplicateWorkflowError) Error() string {
	return fmt.Sprintf("workflow already exists for %s/%s/%s/%s",
		e.ProjectCode, e.MaterialCode, e.PlantCode, e.BlockCode)
}

// NotFoundError signals that a referenced workflow or query does not exist.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
