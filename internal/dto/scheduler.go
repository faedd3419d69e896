package dto

import "github.com/clefworks/conservatory-scheduler/internal/models"

// ScheduleParams tunes one scheduling run.
type ScheduleParams struct {
	PreferredDays  []int `json:"preferredDays" validate:"required,min=1,dive,min=1,max=7"`
	MaxConsecutive int   `json:"maxConsecutive" validate:"required,min=1,max=10"`
}

// ScheduleRequest carries the full input of a scheduling run. The engine
// reads the collections and never mutates them.
type ScheduleRequest struct {
	Courses          []models.Course         `json:"courses" validate:"dive"`
	Rooms            []models.Room           `json:"rooms"`
	Students         []models.Student        `json:"students"`
	ExistingBookings []models.ScheduledClass `json:"existingBookings"`
	Params           ScheduleParams          `json:"params" validate:"required"`
}

// UnassignedCourse records a course whose demand could not be fully placed.
type UnassignedCourse struct {
	Course         models.Course `json:"course"`
	RemainingHours int           `json:"remainingHours"`
}

// ScheduleResult is the outcome of a run. Success is true iff no course is
// left unassigned and no error-severity conflict was recorded.
type ScheduleResult struct {
	Success           bool                    `json:"success"`
	ScheduledClasses  []models.ScheduledClass `json:"scheduledClasses"`
	Conflicts         []models.Conflict       `json:"conflicts"`
	UnassignedCourses []UnassignedCourse      `json:"unassignedCourses"`
}
