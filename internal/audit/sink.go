package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenMSDQ/msdq/internal/events"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// Record is one append-only compliance-history row. Records are never
// updated or deleted.
type Record struct {
	model.BaseModel
	EventType  string     `gorm:"type:varchar(30);column:event_type;not null" json:"eventType"`
	WorkflowID uuid.UUID  `gorm:"type:uuid;column:workflow_id;not null;index" json:"workflowId"`
	QueryID    *uuid.UUID `gorm:"type:uuid;column:query_id" json:"queryId,omitempty"`
	Actor      string     `gorm:"type:varchar(255);column:actor" json:"actor"`
	FromState  string     `gorm:"type:varchar(30);column:from_state" json:"fromState,omitempty"`
	ToState    string     `gorm:"type:varchar(30);column:to_state" json:"toState,omitempty"`
	Payload    string     `gorm:"type:jsonb;column:payload" json:"payload"`
}

func (r *Record) TableName() string {
	return "audit_records"
}

// Sink appends every domain event to the audit_records table. It is wired
// into the event dispatcher alongside the notification gateway and its
// delivery outcome is independent of notification delivery.
type Sink struct {
	db *gorm.DB
}

func NewSink(db *gorm.DB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) Name() string {
	return "audit"
}

func (s *Sink) Deliver(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	record := Record{
		EventType:  string(event.Type),
		WorkflowID: event.WorkflowID,
		QueryID:    event.QueryID,
		Actor:      event.Actor,
		FromState:  string(event.FromState),
		ToState:    string(event.ToState),
		Payload:    string(payload),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// History returns the audit trail for one workflow, oldest first.
func (s *Sink) History(ctx context.Context, workflowID uuid.UUID) ([]Record, error) {
	var records []Record
	result := s.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("created_at asc").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve audit records: %w", result.Error)
	}
	return records, nil
}
