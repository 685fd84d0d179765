package model

import (
	"time"
)

// WorkflowState represents where a questionnaire workflow currently sits in
// the routing cycle.
type WorkflowState string

const (
	WorkflowStatePendingProject    WorkflowState = "PENDING_WITH_PROJECT"    // Awaiting the initiating project team
	WorkflowStatePendingPlant      WorkflowState = "PENDING_WITH_PLANT"      // Under review by the plant team
	WorkflowStatePendingSHE        WorkflowState = "PENDING_WITH_SHE"        // Blocked on an open query to the SHE cell
	WorkflowStatePendingRegulatory WorkflowState = "PENDING_WITH_REGULATORY" // Blocked on an open query to the regulatory cell
	WorkflowStateCompleted         WorkflowState = "COMPLETED"               // All required data collected; terminal
)

// WorkflowPriority is free-form metadata set by the initiator.
type WorkflowPriority string

const (
	WorkflowPriorityLow    WorkflowPriority = "LOW"
	WorkflowPriorityNormal WorkflowPriority = "NORMAL"
	WorkflowPriorityHigh   WorkflowPriority = "HIGH"
)

// Workflow is the aggregate root of one questionnaire routing instance for a
// project/material/plant/block combination.
type Workflow struct {
	BaseModel
	ProjectCode    string           `gorm:"type:varchar(50);column:project_code;not null;uniqueIndex:idx_workflow_business_key" json:"projectCode"`
	MaterialCode   string           `gorm:"type:varchar(50);column:material_code;not null;uniqueIndex:idx_workflow_business_key" json:"materialCode"`
	PlantCode      string           `gorm:"type:varchar(50);column:plant_code;not null;uniqueIndex:idx_workflow_business_key" json:"plantCode"`
	BlockCode      string           `gorm:"type:varchar(50);column:block_code;not null;uniqueIndex:idx_workflow_business_key" json:"blockCode"`
	MaterialName   string           `gorm:"type:varchar(255);column:material_name" json:"materialName"`
	Priority       WorkflowPriority `gorm:"type:varchar(20);column:priority;not null" json:"priority"`
	State          WorkflowState    `gorm:"type:varchar(30);column:state;not null" json:"state"`
	InitiatedBy    string           `gorm:"type:varchar(255);column:initiated_by;not null" json:"initiatedBy"`
	LastModifiedBy string           `gorm:"type:varchar(255);column:last_modified_by" json:"lastModifiedBy"`
	PlantEnteredAt *time.Time       `gorm:"type:timestamptz;column:plant_entered_at" json:"plantEnteredAt,omitempty"` // Stamped on first entry into PENDING_WITH_PLANT
	CompletedAt    *time.Time       `gorm:"type:timestamptz;column:completed_at" json:"completedAt,omitempty"`        // Non-nil iff State is COMPLETED

	// Relationships
	Queries   []Query    `gorm:"foreignKey:WorkflowID;references:ID" json:"-"`
	Documents []Document `gorm:"foreignKey:WorkflowID;references:ID" json:"-"`
}

func (w *Workflow) TableName() string {
	return "workflows"
}

// CreateWorkflowDTO is the payload for initiating a new routing instance.
type CreateWorkflowDTO struct {
	ProjectCode  string           `json:"projectCode" binding:"required"`
	MaterialCode string           `json:"materialCode" binding:"required"`
	PlantCode    string           `json:"plantCode" binding:"required"`
	BlockCode    string           `json:"blockCode" binding:"required"`
	MaterialName string           `json:"materialName"`
	Priority     WorkflowPriority `json:"priority"`
}

// TransitionRequestDTO requests an explicit state change on a workflow.
type TransitionRequestDTO struct {
	TargetState WorkflowState `json:"targetState" binding:"required"`
}

// WorkflowResponseDTO represents a workflow in API responses, annotated with
// SLA data computed on read.
type WorkflowResponseDTO struct {
	Workflow
	OpenQueryCount int  `json:"openQueryCount"`
	DaysPending    int  `json:"daysPending"`
	Overdue        bool `json:"overdue"`
}
