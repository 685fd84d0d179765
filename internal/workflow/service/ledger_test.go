package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

func queryAt(team model.QueryTeam, status model.QueryStatus, createdAt time.Time) model.Query {
	return model.Query{
		BaseModel: model.BaseModel{CreatedAt: createdAt},
		Team:      team,
		Status:    status,
	}
}

func TestQueryLedger_OpenQueryCount(t *testing.T) {
	ledger := NewQueryLedger()
	now := time.Now().UTC()

	assert.Equal(t, 0, ledger.OpenQueryCount(nil))
	assert.False(t, ledger.HasOpenQueries(nil))

	queries := []model.Query{
		queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now),
		queryAt(model.QueryTeamRegulatory, model.QueryStatusResolved, now),
		queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now),
	}
	assert.Equal(t, 2, ledger.OpenQueryCount(queries))
	assert.True(t, ledger.HasOpenQueries(queries))

	resolved := []model.Query{
		queryAt(model.QueryTeamSHE, model.QueryStatusResolved, now),
	}
	assert.Equal(t, 0, ledger.OpenQueryCount(resolved))
	assert.False(t, ledger.HasOpenQueries(resolved))
}

func TestQueryLedger_AnchorQuery(t *testing.T) {
	ledger := NewQueryLedger()
	now := time.Now().UTC()

	older := queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now.Add(-48*time.Hour))
	newer := queryAt(model.QueryTeamSHE, model.QueryStatusOpen, now.Add(-2*time.Hour))
	otherTeam := queryAt(model.QueryTeamRegulatory, model.QueryStatusOpen, now.Add(-1*time.Hour))
	resolved := queryAt(model.QueryTeamSHE, model.QueryStatusResolved, now)

	queries := []model.Query{older, resolved, otherTeam, newer}

	t.Run("picks newest open query of the state's team", func(t *testing.T) {
		anchor := ledger.AnchorQuery(queries, model.WorkflowStatePendingSHE)
		assert.NotNil(t, anchor)
		assert.Equal(t, newer.CreatedAt, anchor.CreatedAt)
	})

	t.Run("matches queries by team", func(t *testing.T) {
		anchor := ledger.AnchorQuery(queries, model.WorkflowStatePendingRegulatory)
		assert.NotNil(t, anchor)
		assert.Equal(t, otherTeam.CreatedAt, anchor.CreatedAt)
	})

	t.Run("nil when no open query for the team", func(t *testing.T) {
		anchor := ledger.AnchorQuery([]model.Query{resolved}, model.WorkflowStatePendingSHE)
		assert.Nil(t, anchor)
	})

	t.Run("nil for non-query states", func(t *testing.T) {
		assert.Nil(t, ledger.AnchorQuery(queries, model.WorkflowStatePendingPlant))
		assert.Nil(t, ledger.AnchorQuery(queries, model.WorkflowStateCompleted))
	})
}
