package service

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
	"github.com/clefworks/conservatory-scheduler/pkg/config"
	appErrors "github.com/clefworks/conservatory-scheduler/pkg/errors"
)

// AutoScheduler builds a conflict-free weekly timetable from in-memory
// collections. Pure computation: the input collections are never mutated and
// identical inputs always produce an identical timetable.
type AutoScheduler struct {
	cfg       config.SchedulerConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *Metrics
}

// NewAutoScheduler wires the scheduling engine.
func NewAutoScheduler(cfg config.SchedulerConfig, validate *validator.Validate, logger *zap.Logger, metrics *Metrics) *AutoScheduler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxConsecutive <= 0 {
		cfg.DefaultMaxConsecutive = 3
	}
	if len(cfg.DefaultPreferredDays) == 0 {
		cfg.DefaultPreferredDays = []int{1, 2, 3, 4, 5}
	}
	return &AutoScheduler{
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// Schedule places every course's weekly demand into free (day, period, room)
// triples. Infeasible demand is never dropped silently: it appears in
// UnassignedCourses together with an error-severity conflict.
func (s *AutoScheduler) Schedule(req dto.ScheduleRequest) (*dto.ScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid schedule request")
	}

	days := normalizeDays(req.Params.PreferredDays)
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preferredDays must contain at least one weekday between 1-7")
	}
	maxConsecutive := req.Params.MaxConsecutive
	if maxConsecutive <= 0 {
		maxConsecutive = s.cfg.DefaultMaxConsecutive
	}

	grid := newWeekGrid(req.ExistingBookings)
	membersByClass := groupMembers(req.Students)

	result := &dto.ScheduleResult{
		ScheduledClasses:  make([]models.ScheduledClass, 0, len(req.Courses)),
		Conflicts:         make([]models.Conflict, 0),
		UnassignedCourses: make([]dto.UnassignedCourse, 0),
	}

	for _, course := range orderCourses(req.Courses) {
		placed, remaining := s.placeCourse(grid, course, req.Rooms, membersByClass, days, maxConsecutive)
		result.ScheduledClasses = append(result.ScheduledClasses, placed...)
		if remaining > 0 {
			result.UnassignedCourses = append(result.UnassignedCourses, dto.UnassignedCourse{
				Course:         course,
				RemainingHours: remaining,
			})
			result.Conflicts = append(result.Conflicts, models.Conflict{
				Type:     models.ConflictTimeConflict,
				Severity: models.SeverityError,
				Description: fmt.Sprintf(
					"course %s: no free (day, period, room) combination within preferred days for %d remaining hour(s)",
					course.Name, remaining),
				TeacherID: course.TeacherID,
				StudentID: course.StudentID,
				CourseID:  course.ID,
			})
		}
	}

	sortClasses(result.ScheduledClasses)
	result.Success = len(result.UnassignedCourses) == 0 && !hasErrors(result.Conflicts)

	if s.metrics != nil {
		s.metrics.ObserveScheduleRun(result)
	}
	s.logger.Info("schedule run finished",
		zap.Int("courses", len(req.Courses)),
		zap.Int("scheduled", len(result.ScheduledClasses)),
		zap.Int("unassigned", len(result.UnassignedCourses)),
		zap.Bool("success", result.Success),
	)
	return result, nil
}

// placeCourse books the course's weekly hours as double periods, falling
// back to singles, and returns what it managed plus the unplaced remainder.
func (s *AutoScheduler) placeCourse(
	grid *weekGrid,
	course models.Course,
	rooms []models.Room,
	membersByClass map[string][]string,
	days []int,
	maxConsecutive int,
) ([]models.ScheduledClass, int) {
	courseDays := intersectDays(days, course.PreferredDays)
	if len(courseDays) == 0 {
		return nil, course.WeeklyHours
	}
	candidates := candidateRooms(course, rooms)
	if len(candidates) == 0 {
		return nil, course.WeeklyHours
	}
	parties := affectedParties(course, membersByClass)

	var placed []models.ScheduledClass
	remaining := course.WeeklyHours
	for remaining > 0 {
		duration := 1
		if remaining >= 2 {
			duration = 2
		}
		class, ok := s.findSlot(grid, course, candidates, parties, courseDays, duration, maxConsecutive)
		if !ok && duration == 2 {
			// no free double period left, a split into singles may still fit
			class, ok = s.findSlot(grid, course, candidates, parties, courseDays, 1, maxConsecutive)
		}
		if !ok {
			break
		}
		grid.reserveFor(class, parties)
		placed = append(placed, class)
		remaining -= class.Duration
	}
	return placed, remaining
}

// findSlot scans (day, period, room) candidates in deterministic order.
// Days already holding a session of this course are visited last so weekly
// demand spreads across the week when possible.
func (s *AutoScheduler) findSlot(
	grid *weekGrid,
	course models.Course,
	rooms []models.Room,
	parties []string,
	days []int,
	duration int,
	maxConsecutive int,
) (models.ScheduledClass, bool) {
	for _, skipUsedDays := range []bool{true, false} {
		for _, day := range days {
			if skipUsedDays && courseOnDay(grid, course, parties, day) {
				continue
			}
			for _, period := range startPeriods(duration) {
				periods := periodSpan(period, duration)
				if !grid.canHold(course.TeacherID, parties, course.ID, day, periods, maxConsecutive) {
					continue
				}
				for _, room := range rooms {
					if !grid.roomAvailable(room.ID, course.ID, day, periods) {
						continue
					}
					return models.ScheduledClass{
						ID:        classID(course.ID, day, period),
						CourseID:  course.ID,
						TeacherID: course.TeacherID,
						PartyID:   course.PartyID(),
						RoomID:    room.ID,
						DayOfWeek: day,
						Period:    period,
						Duration:  duration,
						WeekStart: s.cfg.WeekStart,
						WeekEnd:   s.cfg.WeekEnd,
						Status:    "scheduled",
					}, true
				}
			}
		}
	}
	return models.ScheduledClass{}, false
}

// orderCourses returns a copy sorted by scheduling priority: larger weekly
// demand first, then primary-instrument and theory courses before
// secondary/group ones, ties kept in input order.
func orderCourses(courses []models.Course) []models.Course {
	ordered := make([]models.Course, len(courses))
	copy(ordered, courses)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].WeeklyHours != ordered[j].WeeklyHours {
			return ordered[i].WeeklyHours > ordered[j].WeeklyHours
		}
		return ordered[i].Type.PriorityRank() < ordered[j].Type.PriorityRank()
	})
	return ordered
}

// candidateRooms orders bookable rooms for a course: the teacher's own room
// first, then category matches with sufficient capacity, in input order.
func candidateRooms(course models.Course, rooms []models.Room) []models.Room {
	wantType := models.RoomTypeForCourse(course)
	size := course.Size()

	var owned, matching []models.Room
	for _, room := range rooms {
		if !room.Fits(size) {
			continue
		}
		if room.OwnerTeacherID != "" && room.OwnerTeacherID == course.TeacherID {
			owned = append(owned, room)
			continue
		}
		if room.Type == wantType {
			matching = append(matching, room)
		}
	}
	return append(owned, matching...)
}

// affectedParties lists the booking parties a course occupies: the student
// or group itself plus, for group courses, each member of the class.
func affectedParties(course models.Course, membersByClass map[string][]string) []string {
	if course.StudentID != "" {
		return []string{course.StudentID}
	}
	parties := []string{course.GroupID}
	parties = append(parties, membersByClass[course.GroupID]...)
	return parties
}

func groupMembers(students []models.Student) map[string][]string {
	members := make(map[string][]string)
	for _, student := range students {
		if student.Class == "" {
			continue
		}
		members[student.Class] = append(members[student.Class], student.ID)
	}
	return members
}

func courseOnDay(grid *weekGrid, course models.Course, parties []string, day int) bool {
	for p := 1; p <= models.PeriodsPerDay; p++ {
		if occ, ok := grid.teachers.occupant(course.TeacherID, day, p); ok && occ == course.ID {
			return true
		}
		for _, party := range parties {
			if occ, ok := grid.parties.occupant(party, day, p); ok && occ == course.ID {
				return true
			}
		}
	}
	return false
}

// startPeriods enumerates candidate start periods in ascending order.
// Double periods start on the odd slot of each pair.
func startPeriods(duration int) []int {
	if duration == 2 {
		return []int{1, 3, 5, 7, 9}
	}
	periods := make([]int, 0, models.PeriodsPerDay)
	for p := 1; p <= models.PeriodsPerDay; p++ {
		periods = append(periods, p)
	}
	return periods
}

func periodSpan(start, duration int) []int {
	span := make([]int, 0, duration)
	for p := start; p < start+duration; p++ {
		span = append(span, p)
	}
	return span
}

func sortClasses(classes []models.ScheduledClass) {
	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].DayOfWeek != classes[j].DayOfWeek {
			return classes[i].DayOfWeek < classes[j].DayOfWeek
		}
		if classes[i].Period != classes[j].Period {
			return classes[i].Period < classes[j].Period
		}
		return classes[i].RoomID < classes[j].RoomID
	})
}

func hasErrors(conflicts []models.Conflict) bool {
	for _, conflict := range conflicts {
		if conflict.Severity == models.SeverityError {
			return true
		}
	}
	return false
}

// classID derives a stable id so repeated runs over the same input emit
// identical bookings.
func classID(courseID string, day, period int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d/%d", courseID, day, period))).String()
}

func intersectDays(base, preferred []int) []int {
	if len(preferred) == 0 {
		return base
	}
	allowed := make(map[int]bool, len(preferred))
	for _, day := range preferred {
		allowed[day] = true
	}
	var result []int
	for _, day := range base {
		if allowed[day] {
			result = append(result, day)
		}
	}
	return result
}

func normalizeDays(days []int) []int {
	unique := make(map[int]struct{})
	for _, day := range days {
		if day < 1 || day > 7 {
			continue
		}
		unique[day] = struct{}{}
	}
	result := make([]int, 0, len(unique))
	for day := range unique {
		result = append(result, day)
	}
	sort.Ints(result)
	return result
}
