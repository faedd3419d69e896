package models

// CourseType classifies a weekly course for scheduling priority.
type CourseType string

const (
	CourseTypePrimary   CourseType = "PRIMARY"
	CourseTypeTheory    CourseType = "THEORY"
	CourseTypeSecondary CourseType = "SECONDARY"
)

// PriorityRank orders course types for placement: primary instrument lessons
// first, then theory groups, then secondary lessons.
func (t CourseType) PriorityRank() int {
	switch t {
	case CourseTypePrimary:
		return 0
	case CourseTypeTheory:
		return 1
	default:
		return 2
	}
}

// Course is one weekly teaching obligation to place on the timetable.
// Exactly one of StudentID (individual lesson) or GroupID (group course) is
// set.
type Course struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          CourseType `json:"type"`
	TeacherID     string     `json:"teacher_id"`
	StudentID     string     `json:"student_id,omitempty"`
	GroupID       string     `json:"group_id,omitempty"`
	GroupSize     int        `json:"group_size,omitempty"`
	Instrument    string     `json:"instrument,omitempty"`
	WeeklyHours   int        `json:"weekly_hours"`
	PreferredDays []int      `json:"preferred_days,omitempty"`
}

// PartyID returns the side of the course that must be free alongside the
// teacher: the student for individual lessons, the group otherwise.
func (c Course) PartyID() string {
	if c.StudentID != "" {
		return c.StudentID
	}
	return c.GroupID
}

// Size returns how many participants the booked room must hold.
func (c Course) Size() int {
	if c.StudentID != "" {
		return 1
	}
	if c.GroupSize > 0 {
		return c.GroupSize
	}
	return 1
}
