package models

import "strings"

// PeriodsPerDay is the number of fixed daily time slots. Odd/even pairs
// (1-2, 3-4, ...) form the double periods used by most lessons.
const PeriodsPerDay = 10

// PairStart returns the odd period opening the pair containing p.
func PairStart(p int) int {
	if p%2 == 0 {
		return p - 1
	}
	return p
}

// PairPartner returns the other period of the pair containing p.
func PairPartner(p int) int {
	if p%2 == 0 {
		return p - 1
	}
	return p + 1
}

// ScheduledClass is one placed booking, the unit of conflict detection.
// Duration is in periods; a double period covers two consecutive slots
// starting at an odd period.
type ScheduledClass struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	TeacherID string `json:"teacher_id"`
	PartyID   string `json:"party_id"`
	RoomID    string `json:"room_id"`
	DayOfWeek int    `json:"day_of_week"`
	Period    int    `json:"period"`
	Duration  int    `json:"duration"`
	WeekStart int    `json:"week_start,omitempty"`
	WeekEnd   int    `json:"week_end,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Periods enumerates every period the class occupies.
func (c ScheduledClass) Periods() []int {
	periods := make([]int, 0, c.Duration)
	for p := c.Period; p < c.Period+c.Duration; p++ {
		periods = append(periods, p)
	}
	return periods
}

var dayIndexMap = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

var dayNameIndex = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// DayName returns the canonical weekday name for an index.
func DayName(day int) string {
	if name, ok := dayIndexMap[day]; ok {
		return name
	}
	return "MONDAY"
}

// DayIndex resolves a weekday name to its 1-7 index, 0 when unknown.
func DayIndex(name string) int {
	return dayNameIndex[strings.ToUpper(strings.TrimSpace(name))]
}
