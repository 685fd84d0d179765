package model

import (
	"time"

	"github.com/google/uuid"
)

// QueryTeam identifies the specialist cell a query is assigned to. Each team
// maps 1:1 to one of the query-pending workflow states.
type QueryTeam string

const (
	QueryTeamSHE        QueryTeam = "SHE"        // Safety, health and environment cell
	QueryTeamRegulatory QueryTeam = "REGULATORY" // Regulatory affairs cell
)

// QueryStatus represents the lifecycle status of a query. Queries move only
// OPEN -> RESOLVED, never back.
type QueryStatus string

const (
	QueryStatusOpen     QueryStatus = "OPEN"
	QueryStatusResolved QueryStatus = "RESOLVED"
)

// QueryCategory classifies what kind of information a query asks for.
type QueryCategory string

const (
	QueryCategoryComposition    QueryCategory = "COMPOSITION"
	QueryCategoryHazard         QueryCategory = "HAZARD"
	QueryCategoryClassification QueryCategory = "CLASSIFICATION"
	QueryCategoryOther          QueryCategory = "OTHER"
)

// Query is a blocking sub-task raised against a workflow while it sits in
// plant review. The workflow reference is immutable after creation.
type Query struct {
	BaseModel
	WorkflowID uuid.UUID        `gorm:"type:uuid;column:workflow_id;not null;index" json:"workflowId"`
	Question   string           `gorm:"type:text;column:question;not null" json:"question"`
	Team       QueryTeam        `gorm:"type:varchar(20);column:team;not null" json:"team"`
	Status     QueryStatus      `gorm:"type:varchar(20);column:status;not null" json:"status"`
	Category   QueryCategory    `gorm:"type:varchar(30);column:category" json:"category"`
	Priority   WorkflowPriority `gorm:"type:varchar(20);column:priority" json:"priority"`
	RaisedBy   string           `gorm:"type:varchar(255);column:raised_by;not null" json:"raisedBy"`
	ResolvedBy *string          `gorm:"type:varchar(255);column:resolved_by" json:"resolvedBy,omitempty"`
	Response   *string          `gorm:"type:text;column:response" json:"response,omitempty"`
	ResolvedAt *time.Time       `gorm:"type:timestamptz;column:resolved_at" json:"resolvedAt,omitempty"` // Non-nil iff Status is RESOLVED

	// Relationships
	Workflow *Workflow `gorm:"foreignKey:WorkflowID;references:ID" json:"-"`
}

func (q *Query) TableName() string {
	return "queries"
}

// RaiseQueryDTO is the payload for raising a query against a workflow.
type RaiseQueryDTO struct {
	Question string           `json:"question" binding:"required"`
	Team     QueryTeam        `json:"team" binding:"required"`
	Category QueryCategory    `json:"category"`
	Priority WorkflowPriority `json:"priority"`
}

// ResolveQueryDTO is the payload for resolving a single query.
type ResolveQueryDTO struct {
	Response string `json:"response" binding:"required"`
}

// ReassignQueryDTO moves an open query to a different specialist team.
type ReassignQueryDTO struct {
	Team QueryTeam `json:"team" binding:"required"`
}

// BulkResolveDTO resolves several queries in one request. Items are resolved
// independently; one failure does not abort the rest.
type BulkResolveDTO struct {
	Items []BulkResolveItemDTO `json:"items" binding:"required,min=1"`
}

// BulkResolveItemDTO is one entry of a bulk resolution request.
type BulkResolveItemDTO struct {
	QueryID  uuid.UUID `json:"queryId" binding:"required"`
	Response string    `json:"response" binding:"required"`
}

// QueryResolutionResult is the per-item outcome of a bulk resolution.
type QueryResolutionResult struct {
	QueryID uuid.UUID `json:"queryId"`
	Query   *Query    `json:"query,omitempty"`
	Err     error     `json:"-"`
	Error   string    `json:"error,omitempty"`
}
