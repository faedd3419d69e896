package models

import "time"

// AllocationAction names one assignment operation kind.
type AllocationAction string

const (
	ActionAssign       AllocationAction = "assign"
	ActionUnassign     AllocationAction = "unassign"
	ActionModify       AllocationAction = "modify"
	ActionBulkAssign   AllocationAction = "bulk_assign"
	ActionBulkUnassign AllocationAction = "bulk_unassign"
)

// AllocationHistory is one immutable log entry of an assignment action.
type AllocationHistory struct {
	ID              string           `json:"id"`
	Action          AllocationAction `json:"action"`
	StudentID       string           `json:"student_id"`
	Slot            SubjectSlot      `json:"slot"`
	Instrument      string           `json:"instrument,omitempty"`
	TeacherIDBefore string           `json:"teacher_id_before,omitempty"`
	TeacherIDAfter  string           `json:"teacher_id_after,omitempty"`
	Success         bool             `json:"success"`
	Errors          []string         `json:"errors,omitempty"`
	Actor           string           `json:"actor,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// AllocationHistoryFilter narrows history queries. TeacherID matches the
// teacher either as source or destination of the action.
type AllocationHistoryFilter struct {
	StudentID string
	TeacherID string
	Action    AllocationAction
	From      time.Time
	To        time.Time
}

// AllocationStats are derived counters, recomputed only through the
// recording path.
type AllocationStats struct {
	TotalAssignments      int            `json:"total_assignments"`
	SuccessfulAssignments int            `json:"successful_assignments"`
	FailedAssignments     int            `json:"failed_assignments"`
	InstrumentRequests    map[string]int `json:"instrument_requests"`
	TeacherWorkload       map[string]int `json:"teacher_workload"`
}
