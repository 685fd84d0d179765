package model

import "github.com/google/uuid"

// Document is the metadata row for a safety data sheet or supporting file
// attached to a workflow. The binary itself lives in the storage driver.
type Document struct {
	BaseModel
	WorkflowID uuid.UUID `gorm:"type:uuid;column:workflow_id;not null;index" json:"workflowId"`
	Name       string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Key        string    `gorm:"type:varchar(255);column:key;not null" json:"key"`
	URL        string    `gorm:"type:text;column:url" json:"url"`
	Size       int64     `gorm:"column:size" json:"size"`
	MimeType   string    `gorm:"type:varchar(100);column:mime_type" json:"mimeType"`
	UploadedBy string    `gorm:"type:varchar(255);column:uploaded_by" json:"uploadedBy"`

	// Relationships
	Workflow *Workflow `gorm:"foreignKey:WorkflowID;references:ID" json:"-"`
}

func (d *Document) TableName() string {
	return "documents"
}
