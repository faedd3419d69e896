package models

// ConflictType tags a constraint violation. The set is closed; rules and
// metrics key off these values.
type ConflictType string

const (
	ConflictPrimaryDisciplineUnique   ConflictType = "primary_discipline_unique"
	ConflictInstrumentUnique          ConflictType = "instrument_unique"
	ConflictTeacherCapacity           ConflictType = "teacher_capacity"
	ConflictTeacherInstrumentMismatch ConflictType = "teacher_instrument_mismatch"
	ConflictStudentOverload           ConflictType = "student_overload"
	ConflictTimeConflict              ConflictType = "time_conflict"
	ConflictDuplicateAssignment       ConflictType = "duplicate_assignment"
	ConflictMissingReference          ConflictType = "missing_reference"
)

// Severity grades a conflict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Conflict describes why a proposed schedule or allocation violates a
// constraint. Produced transiently per run, never persisted as domain truth.
type Conflict struct {
	ID          string         `json:"id,omitempty"`
	Type        ConflictType   `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	StudentID   string         `json:"student_id,omitempty"`
	TeacherID   string         `json:"teacher_id,omitempty"`
	RoomID      string         `json:"room_id,omitempty"`
	CourseID    string         `json:"course_id,omitempty"`
	Entries     []int          `json:"entries,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// Suggestion proposes a remediation for a conflict, with a confidence
// score in [0,1].
type Suggestion struct {
	ConflictType ConflictType `json:"conflict_type"`
	Description  string       `json:"description"`
	TeacherID    string       `json:"teacher_id,omitempty"`
	Instrument   string       `json:"instrument,omitempty"`
	Slot         SubjectSlot  `json:"slot,omitempty"`
	Confidence   float64      `json:"confidence"`
}
