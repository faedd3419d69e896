package models

import "strings"

// Faculty codes shared by teachers, rooms, and instruments.
const (
	FacultyPiano      = "PIANO"
	FacultyVocal      = "VOCAL"
	FacultyInstrument = "INSTRUMENT"
	FacultyTheory     = "THEORY"
)

// facultyInstruments maps each faculty code to the instruments it covers.
var facultyInstruments = map[string][]string{
	FacultyPiano:      {"piano", "organ", "accordion"},
	FacultyVocal:      {"voice", "choir", "opera"},
	FacultyInstrument: {"violin", "viola", "cello", "double bass", "flute", "clarinet", "oboe", "trumpet", "trombone", "horn", "guitar", "harp", "percussion", "saxophone"},
	FacultyTheory:     {"theory", "solfege", "composition", "ear training"},
}

// facultyRoomTypes maps a faculty code to its matching room category.
var facultyRoomTypes = map[string]RoomType{
	FacultyPiano:      RoomTypePiano,
	FacultyVocal:      RoomTypeVocal,
	FacultyInstrument: RoomTypeInstrument,
	FacultyTheory:     RoomTypeLargeClassroom,
}

// FacultyTeaches reports whether the faculty curriculum includes the instrument.
func FacultyTeaches(faculty, instrument string) bool {
	instrument = strings.ToLower(strings.TrimSpace(instrument))
	for _, item := range facultyInstruments[strings.ToUpper(faculty)] {
		if item == instrument {
			return true
		}
	}
	return false
}

// FacultyForInstrument resolves the faculty code owning an instrument.
// Unknown instruments fall back to the instrument faculty.
func FacultyForInstrument(instrument string) string {
	instrument = strings.ToLower(strings.TrimSpace(instrument))
	for faculty, items := range facultyInstruments {
		for _, item := range items {
			if item == instrument {
				return faculty
			}
		}
	}
	return FacultyInstrument
}

// FacultyInstruments returns the instruments covered by a faculty code.
func FacultyInstruments(faculty string) []string {
	return facultyInstruments[strings.ToUpper(faculty)]
}

// RoomTypeForCourse resolves the room category a course should book.
// Theory and group courses need a large classroom, lessons need the room
// matching their instrument's faculty.
func RoomTypeForCourse(course Course) RoomType {
	if course.Type == CourseTypeTheory || course.Size() > 4 {
		return RoomTypeLargeClassroom
	}
	if rt, ok := facultyRoomTypes[FacultyForInstrument(course.Instrument)]; ok {
		return rt
	}
	return RoomTypeInstrument
}
