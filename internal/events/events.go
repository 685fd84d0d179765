package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// Type identifies the kind of domain event.
type Type string

const (
	TypeStateChanged    Type = "STATE_CHANGED"
	TypeQueryRaised     Type = "QUERY_RAISED"
	TypeQueryResolved   Type = "QUERY_RESOLVED"
	TypeQueryReassigned Type = "QUERY_REASSIGNED"
)

// Event is a domain event emitted by the workflow core after a successful
// mutation. Delivery to sinks is best-effort and never affects the mutation
// that produced the event.
type Event struct {
	Type       Type                `json:"type"`
	OccurredAt time.Time           `json:"occurredAt"`
	Actor      string              `json:"actor"`
	WorkflowID uuid.UUID           `json:"workflowId"`
	QueryID    *uuid.UUID          `json:"queryId,omitempty"`
	FromState  model.WorkflowState `json:"fromState,omitempty"`
	ToState    model.WorkflowState `json:"toState,omitempty"`
	Team       model.QueryTeam     `json:"team,omitempty"`
}

// StateChanged builds the event published after every workflow transition.
func StateChanged(workflowID uuid.UUID, from, to model.WorkflowState, actor string) Event {
	return Event{
		Type:       TypeStateChanged,
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		WorkflowID: workflowID,
		FromState:  from,
		ToState:    to,
	}
}

// QueryRaised builds the event published when a query is created.
func QueryRaised(workflowID, queryID uuid.UUID, team model.QueryTeam, actor string) Event {
	return Event{
		Type:       TypeQueryRaised,
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		WorkflowID: workflowID,
		QueryID:    &queryID,
		Team:       team,
	}
}

// QueryResolved builds the event published when a query is resolved.
func QueryResolved(workflowID, queryID uuid.UUID, team model.QueryTeam, actor string) Event {
	return Event{
		Type:       TypeQueryResolved,
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		WorkflowID: workflowID,
		QueryID:    &queryID,
		Team:       team,
	}
}

// QueryReassigned builds the event published when an open query moves to a
// different specialist team.
func QueryReassigned(workflowID, queryID uuid.UUID, team model.QueryTeam, actor string) Event {
	return Event{
		Type:       TypeQueryReassigned,
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		WorkflowID: workflowID,
		QueryID:    &queryID,
		Team:       team,
	}
}
