package models

// Teacher represents an instructor record. Read-only to the core.
type Teacher struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	FacultyCode         string            `json:"faculty_code"`
	Instruments         []string          `json:"instruments,omitempty"`
	TeachingCapable     []string          `json:"teaching_capable,omitempty"`
	MaxStudentsPerClass int               `json:"max_students_per_class"`
	FixedRooms          map[string]string `json:"fixed_rooms,omitempty"`
}

// FixedRoomFor returns the teacher's dedicated room for a faculty code.
func (t Teacher) FixedRoomFor(faculty string) string {
	if t.FixedRooms == nil {
		return ""
	}
	return t.FixedRooms[faculty]
}

// QualifiedFor reports whether the teacher may teach the instrument: the
// instrument list, the explicit teaching-capability list, or the faculty
// mapping must confirm it.
func (t Teacher) QualifiedFor(instrument string) bool {
	if instrument == "" {
		return false
	}
	for _, item := range t.Instruments {
		if item == instrument {
			return true
		}
	}
	for _, item := range t.TeachingCapable {
		if item == instrument {
			return true
		}
	}
	return FacultyTeaches(t.FacultyCode, instrument)
}
