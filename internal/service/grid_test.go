package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clefworks/conservatory-scheduler/internal/models"
)

func TestDimensionGridReserveAndFree(t *testing.T) {
	grid := newDimensionGrid()
	grid.reserve("t1", 1, 3, "c1")

	assert.False(t, grid.free("t1", 1, []int{3}))
	assert.True(t, grid.free("t1", 1, []int{5}))
	assert.True(t, grid.free("t2", 1, []int{3}))

	occ, ok := grid.occupant("t1", 1, 3)
	assert.True(t, ok)
	assert.Equal(t, "c1", occ)
}

func TestDimensionGridPairCompatible(t *testing.T) {
	grid := newDimensionGrid()
	grid.reserve("t1", 1, 1, "c1")

	// period 2's partner is held by a foreign course
	assert.False(t, grid.pairCompatible("t1", 1, []int{2}, "c2"))
	// same course may complete the pair
	assert.True(t, grid.pairCompatible("t1", 1, []int{2}, "c1"))
	// candidate spanning the whole pair is always compatible
	assert.True(t, grid.pairCompatible("t1", 1, []int{3, 4}, "c2"))
	// free pair partner
	assert.True(t, grid.pairCompatible("t1", 1, []int{5}, "c2"))
}

func TestDimensionGridRunLength(t *testing.T) {
	grid := newDimensionGrid()
	grid.reserve("t1", 1, 1, "c1")
	grid.reserve("t1", 1, 2, "c1")

	assert.Equal(t, 3, grid.runLength("t1", 1, []int{3}))
	assert.Equal(t, 2, grid.runLength("t1", 1, nil))
	assert.Equal(t, 4, grid.runLength("t1", 1, []int{3, 4}))
	// a gap resets the run
	assert.Equal(t, 2, grid.runLength("t1", 1, []int{5, 6}))
}

func TestWeekGridCanHoldChecksAllParties(t *testing.T) {
	existing := []models.ScheduledClass{{
		ID: "b1", CourseID: "other", TeacherID: "t2", PartyID: "s1", RoomID: "r1",
		DayOfWeek: 2, Period: 1, Duration: 2,
	}}
	grid := newWeekGrid(existing)

	// student s1 busy on day 2 periods 1-2
	assert.False(t, grid.canHold("t1", []string{"s1"}, "c1", 2, []int{1, 2}, 3))
	assert.True(t, grid.canHold("t1", []string{"s2"}, "c1", 2, []int{3, 4}, 3))
	// teacher t2 busy as well
	assert.False(t, grid.canHold("t2", []string{"s2"}, "c1", 2, []int{1, 2}, 3))
}

func TestWeekGridRoomAvailability(t *testing.T) {
	grid := newWeekGrid([]models.ScheduledClass{{
		ID: "b1", CourseID: "other", TeacherID: "t1", PartyID: "s1", RoomID: "r1",
		DayOfWeek: 1, Period: 3, Duration: 1,
	}})

	assert.False(t, grid.roomAvailable("r1", "c1", 1, []int{3}))
	// pair partner of 3 is occupied by a foreign course
	assert.False(t, grid.roomAvailable("r1", "c1", 1, []int{4}))
	assert.True(t, grid.roomAvailable("r1", "other", 1, []int{4}))
	assert.True(t, grid.roomAvailable("r1", "c1", 1, []int{5, 6}))
}

func TestPairHelpers(t *testing.T) {
	assert.Equal(t, 1, models.PairStart(1))
	assert.Equal(t, 1, models.PairStart(2))
	assert.Equal(t, 9, models.PairStart(10))
	assert.Equal(t, 2, models.PairPartner(1))
	assert.Equal(t, 1, models.PairPartner(2))
	assert.Equal(t, 9, models.PairPartner(10))
}
