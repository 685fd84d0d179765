package service

import (
	"time"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// DefaultOverdueThresholdDays is the flat business threshold applied to all
// non-terminal states.
const DefaultOverdueThresholdDays = 3

const day = 24 * time.Hour

// SlaClock computes elapsed pending time and overdue status for a workflow.
// The anchor timestamp depends on the current state:
//
//	PENDING_WITH_PROJECT         creation time
//	PENDING_WITH_PLANT           plant-entry time if set, else creation time
//	PENDING_WITH_SHE/REGULATORY  creation time of the newest open query for
//	                             that team, else workflow last-modified time
//	COMPLETED                    none; days pending is zero
type SlaClock struct {
	thresholdDays int
	ledger        *QueryLedger
}

func NewSlaClock(thresholdDays int) *SlaClock {
	if thresholdDays <= 0 {
		thresholdDays = DefaultOverdueThresholdDays
	}
	return &SlaClock{
		thresholdDays: thresholdDays,
		ledger:        NewQueryLedger(),
	}
}

// DaysPending returns the whole days elapsed since the anchor timestamp, or
// zero when no anchor applies.
func (c *SlaClock) DaysPending(workflow *model.Workflow, queries []model.Query, now time.Time) int {
	anchor := c.anchor(workflow, queries)
	if anchor == nil {
		return 0
	}
	elapsed := now.Sub(*anchor)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / day)
}

// IsOverdue reports whether the workflow has been pending strictly longer
// than the threshold. Always false once the workflow is terminal. The
// comparison is on the raw elapsed duration, so a workflow becomes overdue
// the moment it passes the threshold, not a day later.
func (c *SlaClock) IsOverdue(workflow *model.Workflow, queries []model.Query, now time.Time) bool {
	if model.IsTerminal(workflow.State) {
		return false
	}
	anchor := c.anchor(workflow, queries)
	if anchor == nil {
		return false
	}
	return now.Sub(*anchor) > time.Duration(c.thresholdDays)*day
}

func (c *SlaClock) anchor(workflow *model.Workflow, queries []model.Query) *time.Time {
	switch {
	case workflow.State == model.WorkflowStatePendingProject:
		return &workflow.CreatedAt
	case workflow.State == model.WorkflowStatePendingPlant:
		if workflow.PlantEnteredAt != nil {
			return workflow.PlantEnteredAt
		}
		return &workflow.CreatedAt
	case model.IsQueryState(workflow.State):
		if anchor := c.ledger.AnchorQuery(queries, workflow.State); anchor != nil {
			return &anchor.CreatedAt
		}
		return &workflow.UpdatedAt
	default:
		return nil
	}
}
