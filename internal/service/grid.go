package service

import (
	"github.com/clefworks/conservatory-scheduler/internal/models"
)

type slotKey struct {
	Day    int
	Period int
}

// dimensionGrid tracks weekly occupancy for one booking dimension (teachers,
// students/groups, or rooms). Values are the occupying course id so the
// paired-period rule can tell "same course" from "foreign booking".
type dimensionGrid struct {
	slots map[string]map[slotKey]string
}

func newDimensionGrid() *dimensionGrid {
	return &dimensionGrid{slots: make(map[string]map[slotKey]string)}
}

func (g *dimensionGrid) occupant(id string, day, period int) (string, bool) {
	if id == "" {
		return "", false
	}
	course, ok := g.slots[id][slotKey{Day: day, Period: period}]
	return course, ok
}

func (g *dimensionGrid) reserve(id string, day, period int, courseID string) {
	if id == "" {
		return
	}
	if g.slots[id] == nil {
		g.slots[id] = make(map[slotKey]string)
	}
	g.slots[id][slotKey{Day: day, Period: period}] = courseID
}

// free reports whether every given period is unoccupied for the id.
func (g *dimensionGrid) free(id string, day int, periods []int) bool {
	for _, p := range periods {
		if _, ok := g.occupant(id, day, p); ok {
			return false
		}
	}
	return true
}

// pairCompatible enforces the double-period convention: each candidate
// period's pair partner must be free, occupied by the same course, or part
// of the candidate itself.
func (g *dimensionGrid) pairCompatible(id string, day int, periods []int, courseID string) bool {
	inCandidate := make(map[int]bool, len(periods))
	for _, p := range periods {
		inCandidate[p] = true
	}
	for _, p := range periods {
		partner := models.PairPartner(p)
		if partner < 1 || partner > models.PeriodsPerDay || inCandidate[partner] {
			continue
		}
		if occ, ok := g.occupant(id, day, partner); ok && occ != courseID {
			return false
		}
	}
	return true
}

// runLength returns the longest consecutive occupied run on the day that
// would exist once the candidate periods are booked.
func (g *dimensionGrid) runLength(id string, day int, periods []int) int {
	occupied := make(map[int]bool, models.PeriodsPerDay)
	for p := 1; p <= models.PeriodsPerDay; p++ {
		if _, ok := g.occupant(id, day, p); ok {
			occupied[p] = true
		}
	}
	for _, p := range periods {
		occupied[p] = true
	}

	longest, run := 0, 0
	for p := 1; p <= models.PeriodsPerDay; p++ {
		if occupied[p] {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}

// weekGrid aggregates the three booking dimensions of a timetable.
type weekGrid struct {
	teachers *dimensionGrid
	parties  *dimensionGrid
	rooms    *dimensionGrid
}

func newWeekGrid(existing []models.ScheduledClass) *weekGrid {
	grid := &weekGrid{
		teachers: newDimensionGrid(),
		parties:  newDimensionGrid(),
		rooms:    newDimensionGrid(),
	}
	for _, booking := range existing {
		grid.reserve(booking)
	}
	return grid
}

func (g *weekGrid) reserve(class models.ScheduledClass) {
	g.reserveFor(class, []string{class.PartyID})
}

// reserveFor books a class under every affected party id: the party itself
// plus, for group courses, each member student.
func (g *weekGrid) reserveFor(class models.ScheduledClass, partyIDs []string) {
	for _, p := range class.Periods() {
		g.teachers.reserve(class.TeacherID, class.DayOfWeek, p, class.CourseID)
		g.rooms.reserve(class.RoomID, class.DayOfWeek, p, class.CourseID)
		for _, partyID := range partyIDs {
			g.parties.reserve(partyID, class.DayOfWeek, p, class.CourseID)
		}
	}
}

// canHold checks a placement candidate against every hard constraint except
// room selection: free slots, pair compatibility, and the consecutive cap
// for the teacher and every affected student party.
func (g *weekGrid) canHold(teacherID string, partyIDs []string, courseID string, day int, periods []int, maxConsecutive int) bool {
	if !g.teachers.free(teacherID, day, periods) {
		return false
	}
	if !g.teachers.pairCompatible(teacherID, day, periods, courseID) {
		return false
	}
	if maxConsecutive > 0 && g.teachers.runLength(teacherID, day, periods) > maxConsecutive {
		return false
	}
	for _, partyID := range partyIDs {
		if !g.parties.free(partyID, day, periods) {
			return false
		}
		if !g.parties.pairCompatible(partyID, day, periods, courseID) {
			return false
		}
		if maxConsecutive > 0 && g.parties.runLength(partyID, day, periods) > maxConsecutive {
			return false
		}
	}
	return true
}

// roomAvailable checks the room dimension for the same candidate.
func (g *weekGrid) roomAvailable(roomID, courseID string, day int, periods []int) bool {
	return g.rooms.free(roomID, day, periods) && g.rooms.pairCompatible(roomID, day, periods, courseID)
}
