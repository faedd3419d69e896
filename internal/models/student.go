package models

// SubjectSlot names one of a student's assignable instrument slots.
type SubjectSlot string

const (
	SlotPrimary    SubjectSlot = "primary"
	SlotSecondary1 SubjectSlot = "secondary1"
	SlotSecondary2 SubjectSlot = "secondary2"
	SlotSecondary3 SubjectSlot = "secondary3"
)

// AllSubjectSlots lists slots in canonical order.
var AllSubjectSlots = []SubjectSlot{SlotPrimary, SlotSecondary1, SlotSecondary2, SlotSecondary3}

// ValidSubjectSlot reports whether the value names a known slot.
func ValidSubjectSlot(slot SubjectSlot) bool {
	switch slot {
	case SlotPrimary, SlotSecondary1, SlotSecondary2, SlotSecondary3:
		return true
	}
	return false
}

// InstrumentSlot pairs an instrument with its assigned teacher, if any.
type InstrumentSlot struct {
	Instrument string `json:"instrument,omitempty"`
	TeacherID  string `json:"teacher_id,omitempty"`
}

// Student represents a learner with up to four instrument slots. A student
// without a primary instrument is an upgrade-track generalist and uses the
// three secondary slots instead.
type Student struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Class      string         `json:"class"`
	Primary    InstrumentSlot `json:"primary"`
	Secondary1 InstrumentSlot `json:"secondary1"`
	Secondary2 InstrumentSlot `json:"secondary2"`
	Secondary3 InstrumentSlot `json:"secondary3"`
}

// Slot returns the slot value for the given name.
func (s Student) Slot(slot SubjectSlot) InstrumentSlot {
	switch slot {
	case SlotPrimary:
		return s.Primary
	case SlotSecondary1:
		return s.Secondary1
	case SlotSecondary2:
		return s.Secondary2
	case SlotSecondary3:
		return s.Secondary3
	}
	return InstrumentSlot{}
}

// SetSlot returns a copy of the student with the slot replaced.
func (s Student) SetSlot(slot SubjectSlot, value InstrumentSlot) Student {
	switch slot {
	case SlotPrimary:
		s.Primary = value
	case SlotSecondary1:
		s.Secondary1 = value
	case SlotSecondary2:
		s.Secondary2 = value
	case SlotSecondary3:
		s.Secondary3 = value
	}
	return s
}

// AssignedSlots counts slots that currently reference a teacher.
func (s Student) AssignedSlots() int {
	count := 0
	for _, slot := range AllSubjectSlots {
		if s.Slot(slot).TeacherID != "" {
			count++
		}
	}
	return count
}

// UpgradeTrack reports whether the student has no primary instrument and
// relies on the three secondary slots instead.
func (s Student) UpgradeTrack() bool {
	return s.Primary.Instrument == ""
}
