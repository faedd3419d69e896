package models

// RoomType categorises rooms by the lessons they can host.
type RoomType string

const (
	RoomTypePiano          RoomType = "PIANO"
	RoomTypeVocal          RoomType = "VOCAL"
	RoomTypeInstrument     RoomType = "INSTRUMENT"
	RoomTypeLargeClassroom RoomType = "LARGE_CLASSROOM"
)

// Room is a bookable teaching room. OwnerTeacherID marks a studio reserved
// for one teacher; the scheduler prefers it for that teacher's lessons.
type Room struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           RoomType `json:"type"`
	Capacity       int      `json:"capacity"`
	OwnerTeacherID string   `json:"owner_teacher_id,omitempty"`
}

// Fits reports whether the room holds a class of the given size. A zero
// capacity means unrestricted.
func (r Room) Fits(size int) bool {
	return r.Capacity <= 0 || size <= r.Capacity
}
