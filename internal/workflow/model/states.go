package model

// workflowTransitions is the single source of truth for which state changes
// are legal. COMPLETED is terminal and has no outgoing edges. The two
// query-pending states can only return to plant review.
var workflowTransitions = map[WorkflowState][]WorkflowState{
	WorkflowStatePendingProject:    {WorkflowStatePendingPlant},
	WorkflowStatePendingPlant:      {WorkflowStatePendingSHE, WorkflowStatePendingRegulatory, WorkflowStateCompleted},
	WorkflowStatePendingSHE:        {WorkflowStatePendingPlant},
	WorkflowStatePendingRegulatory: {WorkflowStatePendingPlant},
	WorkflowStateCompleted:         {},
}

// teamStates maps each specialist team to the workflow state the workflow
// enters while a query for that team is open.
var teamStates = map[QueryTeam]WorkflowState{
	QueryTeamSHE:        WorkflowStatePendingSHE,
	QueryTeamRegulatory: WorkflowStatePendingRegulatory,
}

// CanTransitionTo reports whether the fixed state graph permits moving from
// one state to another. Unknown states simply have no outgoing edges.
func CanTransitionTo(from, to WorkflowState) bool {
	for _, next := range workflowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsQueryState reports whether the state is one of the two specialist
// query-pending states.
func IsQueryState(state WorkflowState) bool {
	return state == WorkflowStatePendingSHE || state == WorkflowStatePendingRegulatory
}

// IsTerminal reports whether the state admits no further transitions.
func IsTerminal(state WorkflowState) bool {
	return state == WorkflowStateCompleted
}

// StateForTeam returns the query-pending state corresponding to a specialist
// team. The second return value is false for an unknown team.
func StateForTeam(team QueryTeam) (WorkflowState, bool) {
	state, ok := teamStates[team]
	return state, ok
}

// TeamForState is the inverse of StateForTeam. The second return value is
// false when the state is not a query state.
func TeamForState(state WorkflowState) (QueryTeam, bool) {
	for team, s := range teamStates {
		if s == state {
			return team, true
		}
	}
	return "", false
}
