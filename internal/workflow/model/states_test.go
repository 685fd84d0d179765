package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	allStates := []WorkflowState{
		WorkflowStatePendingProject,
		WorkflowStatePendingPlant,
		WorkflowStatePendingSHE,
		WorkflowStatePendingRegulatory,
		WorkflowStateCompleted,
	}

	legal := map[WorkflowState][]WorkflowState{
		WorkflowStatePendingProject:    {WorkflowStatePendingPlant},
		WorkflowStatePendingPlant:      {WorkflowStatePendingSHE, WorkflowStatePendingRegulatory, WorkflowStateCompleted},
		WorkflowStatePendingSHE:        {WorkflowStatePendingPlant},
		WorkflowStatePendingRegulatory: {WorkflowStatePendingPlant},
		WorkflowStateCompleted:         {},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			expected := false
			for _, next := range legal[from] {
				if next == to {
					expected = true
				}
			}
			assert.Equal(t, expected, CanTransitionTo(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionTo_UnknownStates(t *testing.T) {
	assert.False(t, CanTransitionTo(WorkflowState("BOGUS"), WorkflowStatePendingPlant))
	assert.False(t, CanTransitionTo(WorkflowStatePendingPlant, WorkflowState("BOGUS")))
	assert.False(t, CanTransitionTo(WorkflowStatePendingPlant, WorkflowStatePendingPlant))
}

func TestIsQueryState(t *testing.T) {
	assert.True(t, IsQueryState(WorkflowStatePendingSHE))
	assert.True(t, IsQueryState(WorkflowStatePendingRegulatory))
	assert.False(t, IsQueryState(WorkflowStatePendingProject))
	assert.False(t, IsQueryState(WorkflowStatePendingPlant))
	assert.False(t, IsQueryState(WorkflowStateCompleted))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(WorkflowStateCompleted))
	assert.False(t, IsTerminal(WorkflowStatePendingProject))
	assert.False(t, IsTerminal(WorkflowStatePendingPlant))
	assert.False(t, IsTerminal(WorkflowStatePendingSHE))
	assert.False(t, IsTerminal(WorkflowStatePendingRegulatory))
}

func TestStateForTeam(t *testing.T) {
	state, ok := StateForTeam(QueryTeamSHE)
	assert.True(t, ok)
	assert.Equal(t, WorkflowStatePendingSHE, state)

	state, ok = StateForTeam(QueryTeamRegulatory)
	assert.True(t, ok)
	assert.Equal(t, WorkflowStatePendingRegulatory, state)

	_, ok = StateForTeam(QueryTeam("FINANCE"))
	assert.False(t, ok)
}

func TestTeamForState(t *testing.T) {
	team, ok := TeamForState(WorkflowStatePendingSHE)
	assert.True(t, ok)
	assert.Equal(t, QueryTeamSHE, team)

	team, ok = TeamForState(WorkflowStatePendingRegulatory)
	assert.True(t, ok)
	assert.Equal(t, QueryTeamRegulatory, team)

	_, ok = TeamForState(WorkflowStatePendingPlant)
	assert.False(t, ok)
}
