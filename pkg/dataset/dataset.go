// Package dataset loads scheduling datasets from JSON and normalises legacy
// field variants into the canonical schema. The engines only ever see
// canonical records; every duck-typed fallback is resolved here, once.
package dataset

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
	appErrors "github.com/clefworks/conservatory-scheduler/pkg/errors"
)

// Dataset is the canonical in-memory input of a scheduling or validation
// run.
type Dataset struct {
	Courses     []models.Course         `json:"courses"`
	Rooms       []models.Room           `json:"rooms"`
	Students    []models.Student        `json:"students"`
	Teachers    []models.Teacher        `json:"teachers"`
	Bookings    []models.ScheduledClass `json:"bookings"`
	Allocations []dto.AllocationRequest `json:"allocations"`
}

type rawCourse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	TeacherID     string `json:"teacher_id"`
	Teacher       string `json:"teacher"`
	StudentID     string `json:"student_id"`
	Student       string `json:"student"`
	GroupID       string `json:"group_id"`
	ClassGroup    string `json:"class_group"`
	GroupSize     int    `json:"group_size"`
	Instrument    string `json:"instrument"`
	Subject       string `json:"subject"`
	WeeklyHours   int    `json:"weekly_hours"`
	RequiredHours int    `json:"required_hours"`
	HoursPerWeek  int    `json:"hours_per_week"`
	PreferredDays []int  `json:"preferred_days"`
}

type rawDataset struct {
	Courses     []rawCourse             `json:"courses"`
	Rooms       []models.Room           `json:"rooms"`
	Students    []models.Student        `json:"students"`
	Teachers    []models.Teacher        `json:"teachers"`
	Bookings    []models.ScheduledClass `json:"bookings"`
	Allocations []dto.AllocationRequest `json:"allocations"`
}

// Load reads and normalises a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, "failed to read dataset file")
	}
	return Parse(data)
}

// Parse decodes a dataset payload and applies the normalisation step.
func Parse(data []byte) (*Dataset, error) {
	var raw rawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "malformed dataset payload")
	}

	ds := &Dataset{
		Rooms:       raw.Rooms,
		Students:    raw.Students,
		Teachers:    raw.Teachers,
		Bookings:    raw.Bookings,
		Allocations: raw.Allocations,
	}
	ds.Courses = make([]models.Course, 0, len(raw.Courses))
	for _, course := range raw.Courses {
		ds.Courses = append(ds.Courses, normalizeCourse(course))
	}

	for i := range ds.Rooms {
		if ds.Rooms[i].ID == "" {
			ds.Rooms[i].ID = uuid.NewString()
		}
		ds.Rooms[i].Type = models.RoomType(strings.ToUpper(string(ds.Rooms[i].Type)))
	}
	for i := range ds.Teachers {
		if ds.Teachers[i].ID == "" {
			ds.Teachers[i].ID = uuid.NewString()
		}
		ds.Teachers[i].FacultyCode = strings.ToUpper(ds.Teachers[i].FacultyCode)
	}
	for i := range ds.Students {
		if ds.Students[i].ID == "" {
			ds.Students[i].ID = uuid.NewString()
		}
	}
	return ds, nil
}

// normalizeCourse resolves the legacy field variants of one course record.
func normalizeCourse(raw rawCourse) models.Course {
	course := models.Course{
		ID:            raw.ID,
		Name:          raw.Name,
		Type:          normalizeCourseType(raw.Type),
		TeacherID:     firstNonEmpty(raw.TeacherID, raw.Teacher),
		StudentID:     firstNonEmpty(raw.StudentID, raw.Student),
		GroupID:       firstNonEmpty(raw.GroupID, raw.ClassGroup),
		GroupSize:     raw.GroupSize,
		Instrument:    strings.ToLower(strings.TrimSpace(firstNonEmpty(raw.Instrument, raw.Subject))),
		WeeklyHours:   firstPositive(raw.WeeklyHours, raw.RequiredHours, raw.HoursPerWeek),
		PreferredDays: validDays(raw.PreferredDays),
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	return course
}

func normalizeCourseType(raw string) models.CourseType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PRIMARY", "PRIMARY_INSTRUMENT", "MAIN":
		return models.CourseTypePrimary
	case "THEORY", "SOLFEGE":
		return models.CourseTypeTheory
	default:
		return models.CourseTypeSecondary
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

func validDays(days []int) []int {
	var result []int
	for _, day := range days {
		if day >= 1 && day <= 7 {
			result = append(result, day)
		}
	}
	return result
}
