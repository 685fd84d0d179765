package service

import (
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// QueryLedger is a read-only view over a workflow's loaded queries. It has
// no side effects; callers load the query slice through the repository.
type QueryLedger struct{}

func NewQueryLedger() *QueryLedger {
	return &QueryLedger{}
}

// HasOpenQueries reports whether any query in the slice is still open.
func (l *QueryLedger) HasOpenQueries(queries []model.Query) bool {
	return l.OpenQueryCount(queries) > 0
}

// OpenQueryCount counts queries with open status.
func (l *QueryLedger) OpenQueryCount(queries []model.Query) int {
	count := 0
	for i := range queries {
		if queries[i].Status == model.QueryStatusOpen {
			count++
		}
	}
	return count
}

// AnchorQuery returns the most recently created still-open query assigned to
// the team corresponding to the given query state, or nil when the state is
// not a query state or no such query is open. The SLA clock falls back to
// the workflow's last-modified timestamp in the nil case.
func (l *QueryLedger) AnchorQuery(queries []model.Query, state model.WorkflowState) *model.Query {
	team, ok := model.TeamForState(state)
	if !ok {
		return nil
	}

	var anchor *model.Query
	for i := range queries {
		q := &queries[i]
		if q.Status != model.QueryStatusOpen || q.Team != team {
			continue
		}
		if anchor == nil || q.CreatedAt.After(anchor.CreatedAt) {
			anchor = q
		}
	}
	return anchor
}
