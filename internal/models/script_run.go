package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Script run statuses.
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// ScriptRun is the audit record for one analysis script execution: which
// script, who triggered it, the effective parameters, and the outcome.
type ScriptRun struct {
	RunID       uuid.UUID      `gorm:"column:run_id;type:uuid;primaryKey" json:"run_id"`
	Script      string         `gorm:"column:script;not null;index" json:"script"`
	TriggeredBy *uuid.UUID     `gorm:"column:triggered_by;type:uuid" json:"triggered_by"`
	Params      datatypes.JSON `gorm:"column:params" json:"params"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Message     string         `gorm:"column:message" json:"message"`
	Output      datatypes.JSON `gorm:"column:output" json:"output"`
	DurationMS  int64          `gorm:"column:duration_ms;not null" json:"duration_ms"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (ScriptRun) TableName() string {
	return "ScriptRuns"
}

func (r *ScriptRun) BeforeCreate(tx *gorm.DB) error {
	if r.RunID == uuid.Nil {
		r.RunID = uuid.New()
	}
	return nil
}
