package dto

import "github.com/clefworks/conservatory-scheduler/internal/models"

// AllocationRequest proposes assigning a teacher to one of a student's
// instrument slots. TeacherID may be empty to validate an unassign.
// Instrument overrides the slot's current instrument when the allocation
// introduces a new one.
type AllocationRequest struct {
	StudentID  string             `json:"studentId" validate:"required"`
	TeacherID  string             `json:"teacherId"`
	Slot       models.SubjectSlot `json:"slot" validate:"required"`
	Instrument string             `json:"instrument"`
	IsImport   bool               `json:"isImport"`
	Actor      string             `json:"actor"`
}

// ValidationResult aggregates rule outcomes for one allocation or a batch.
type ValidationResult struct {
	IsValid     bool                `json:"isValid"`
	Conflicts   []models.Conflict   `json:"conflicts"`
	Warnings    []models.Conflict   `json:"warnings"`
	Suggestions []models.Suggestion `json:"suggestions"`
	CanProceed  bool                `json:"canProceed"`
}

// RulePatch updates a validation rule's configuration. Nil fields keep the
// current value.
type RulePatch struct {
	Enabled  *bool            `json:"enabled,omitempty"`
	Severity *models.Severity `json:"severity,omitempty"`
	Message  *string          `json:"message,omitempty"`
}

// RuleConfig is the externally visible configuration of one rule.
type RuleConfig struct {
	ID       models.ConflictType `json:"id"`
	Enabled  bool                `json:"enabled"`
	Severity models.Severity     `json:"severity"`
	Message  string              `json:"message"`
}
