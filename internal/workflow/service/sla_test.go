package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

func workflowInState(state model.WorkflowState, createdAt time.Time) *model.Workflow {
	return &model.Workflow{
		BaseModel: model.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		State:     state,
	}
}

func TestSlaClock_DaysPending(t *testing.T) {
	clock := NewSlaClock(DefaultOverdueThresholdDays)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("project state anchors at creation", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingProject, now.Add(-50*time.Hour))
		assert.Equal(t, 2, clock.DaysPending(w, nil, now))
	})

	t.Run("whole days are floored", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingProject, now.Add(-(72*time.Hour + time.Second)))
		assert.Equal(t, 3, clock.DaysPending(w, nil, now))
	})

	t.Run("plant state anchors at plant entry", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingPlant, now.Add(-200*time.Hour))
		entered := now.Add(-30 * time.Hour)
		w.PlantEnteredAt = &entered
		assert.Equal(t, 1, clock.DaysPending(w, nil, now))
	})

	t.Run("plant state falls back to creation without entry stamp", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingPlant, now.Add(-49*time.Hour))
		assert.Equal(t, 2, clock.DaysPending(w, nil, now))
	})

	t.Run("query state anchors at newest open query of the team", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingSHE, now.Add(-300*time.Hour))
		queries := []model.Query{
			queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now.Add(-100*time.Hour)),
			queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now.Add(-26*time.Hour)),
		}
		assert.Equal(t, 1, clock.DaysPending(w, queries, now))
	})

	t.Run("query state falls back to last modification without open query", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingSHE, now.Add(-300*time.Hour))
		w.UpdatedAt = now.Add(-25 * time.Hour)
		assert.Equal(t, 1, clock.DaysPending(w, nil, now))
	})

	t.Run("completed workflows report zero", func(t *testing.T) {
		w := workflowInState(model.WorkflowStateCompleted, now.Add(-500*time.Hour))
		assert.Equal(t, 0, clock.DaysPending(w, nil, now))
	})

	t.Run("future anchors clamp to zero", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingProject, now.Add(time.Hour))
		assert.Equal(t, 0, clock.DaysPending(w, nil, now))
	})
}

func TestSlaClock_IsOverdue(t *testing.T) {
	clock := NewSlaClock(DefaultOverdueThresholdDays)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("false at exactly the threshold", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingProject, now.Add(-72*time.Hour))
		assert.False(t, clock.IsOverdue(w, nil, now))
	})

	t.Run("true one second past the threshold", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingProject, now.Add(-(72*time.Hour + time.Second)))
		assert.True(t, clock.IsOverdue(w, nil, now))
	})

	t.Run("query state measures against the anchor query", func(t *testing.T) {
		w := workflowInState(model.WorkflowStatePendingRegulatory, now.Add(-400*time.Hour))
		fresh := []model.Query{
			queryAt(model.QueryTeamRegulatory, model.QueryStatusOpen, now.Add(-time.Hour)),
		}
		assert.False(t, clock.IsOverdue(w, fresh, now))

		old := []model.Query{
			queryAt(model.QueryTeamRegulatory, model.QueryStatusOpen, now.Add(-96*time.Hour)),
		}
		assert.True(t, clock.IsOverdue(w, old, now))
	})

	t.Run("completed workflows are never overdue", func(t *testing.T) {
		w := workflowInState(model.WorkflowStateCompleted, now.Add(-500*time.Hour))
		assert.False(t, clock.IsOverdue(w, nil, now))
	})
}

func TestSlaClock_CustomThreshold(t *testing.T) {
	clock := NewSlaClock(5)
	now := time.Now().UTC()

	w := workflowInState(model.WorkflowStatePendingProject, now.Add(-4*24*time.Hour))
	assert.False(t, clock.IsOverdue(w, nil, now))

	w = workflowInState(model.WorkflowStatePendingProject, now.Add(-6*24*time.Hour))
	assert.True(t, clock.IsOverdue(w, nil, now))
}

func TestNewSlaClock_DefaultsInvalidThreshold(t *testing.T) {
	clock := NewSlaClock(0)
	now := time.Now().UTC()

	w := workflowInState(model.WorkflowStatePendingProject, now.Add(-(3*24*time.Hour + time.Minute)))
	assert.True(t, clock.IsOverdue(w, nil, now))
}
