package service

import (
	"fmt"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
	"github.com/clefworks/conservatory-scheduler/pkg/config"
)

// ruleContext carries everything a rule may read. Rules never mutate it.
type ruleContext struct {
	Request    dto.AllocationRequest
	Student    models.Student
	Teacher    *models.Teacher
	Instrument string
	Students   []models.Student
	Teachers   []models.Teacher
	Load       map[string]int
	Config     config.ValidationConfig
}

// allocationRule evaluates one constraint against a proposed allocation and
// returns a conflict when violated. The severity recorded on the conflict is
// the rule's default; the service applies configured overrides afterwards.
type allocationRule interface {
	ID() models.ConflictType
	Evaluate(ctx ruleContext) *models.Conflict
}

// defaultRules lists the per-allocation rules in evaluation order.
func defaultRules() []allocationRule {
	return []allocationRule{
		primaryDisciplineUniqueRule{},
		instrumentUniqueRule{},
		teacherCapacityRule{},
		teacherInstrumentMismatchRule{},
		studentOverloadRule{},
	}
}

// defaultRuleConfigs returns the full configuration table, including the
// kinds raised outside the per-item pipeline (time conflicts, bulk
// duplicates, missing references).
func defaultRuleConfigs() map[models.ConflictType]dto.RuleConfig {
	table := map[models.ConflictType]dto.RuleConfig{
		models.ConflictPrimaryDisciplineUnique: {
			Severity: models.SeverityError,
			Message:  "primary slot already assigned to another teacher",
		},
		models.ConflictInstrumentUnique: {
			Severity: models.SeverityError,
			Message:  "instrument already assigned in another slot",
		},
		models.ConflictTeacherCapacity: {
			Severity: models.SeverityWarning,
			Message:  "teacher is at or above capacity",
		},
		models.ConflictTeacherInstrumentMismatch: {
			Severity: models.SeverityError,
			Message:  "teacher is not qualified for this instrument",
		},
		models.ConflictStudentOverload: {
			Severity: models.SeverityWarning,
			Message:  "student is carrying a heavy instrument load",
		},
		models.ConflictTimeConflict: {
			Severity: models.SeverityError,
			Message:  "booking collides with an existing schedule entry",
		},
		models.ConflictDuplicateAssignment: {
			Severity: models.SeverityError,
			Message:  "duplicate allocation in batch",
		},
		models.ConflictMissingReference: {
			Severity: models.SeverityError,
			Message:  "allocation references an unknown record",
		},
	}
	for id, cfg := range table {
		cfg.ID = id
		cfg.Enabled = true
		table[id] = cfg
	}
	return table
}

type primaryDisciplineUniqueRule struct{}

func (primaryDisciplineUniqueRule) ID() models.ConflictType {
	return models.ConflictPrimaryDisciplineUnique
}

func (primaryDisciplineUniqueRule) Evaluate(ctx ruleContext) *models.Conflict {
	if ctx.Request.Slot != models.SlotPrimary || ctx.Request.TeacherID == "" {
		return nil
	}
	current := ctx.Student.Primary.TeacherID
	if current == "" || current == ctx.Request.TeacherID {
		return nil
	}
	return &models.Conflict{
		Type:     models.ConflictPrimaryDisciplineUnique,
		Severity: models.SeverityError,
		Description: fmt.Sprintf("student %s primary slot is already held by teacher %s",
			ctx.Student.Name, current),
		StudentID: ctx.Student.ID,
		TeacherID: ctx.Request.TeacherID,
	}
}

type instrumentUniqueRule struct{}

func (instrumentUniqueRule) ID() models.ConflictType {
	return models.ConflictInstrumentUnique
}

func (instrumentUniqueRule) Evaluate(ctx ruleContext) *models.Conflict {
	if ctx.Instrument == "" {
		return nil
	}
	for _, slot := range models.AllSubjectSlots {
		if slot == ctx.Request.Slot {
			continue
		}
		if ctx.Student.Slot(slot).Instrument == ctx.Instrument {
			return &models.Conflict{
				Type:     models.ConflictInstrumentUnique,
				Severity: models.SeverityError,
				Description: fmt.Sprintf("student %s already studies %s in slot %s",
					ctx.Student.Name, ctx.Instrument, slot),
				StudentID: ctx.Student.ID,
				TeacherID: ctx.Request.TeacherID,
			}
		}
	}
	return nil
}

type teacherCapacityRule struct{}

func (teacherCapacityRule) ID() models.ConflictType {
	return models.ConflictTeacherCapacity
}

func (teacherCapacityRule) Evaluate(ctx ruleContext) *models.Conflict {
	if ctx.Teacher == nil {
		return nil
	}
	capacity := ctx.Teacher.MaxStudentsPerClass
	if capacity <= 0 {
		capacity = ctx.Config.DefaultTeacherCapacity
	}
	if capacity <= 0 {
		return nil
	}
	load := ctx.Load[ctx.Teacher.ID]
	if load < capacity {
		return nil
	}
	return &models.Conflict{
		Type:     models.ConflictTeacherCapacity,
		Severity: models.SeverityWarning,
		Description: fmt.Sprintf("teacher %s carries %d students against a capacity of %d",
			ctx.Teacher.Name, load, capacity),
		StudentID: ctx.Student.ID,
		TeacherID: ctx.Teacher.ID,
	}
}

type teacherInstrumentMismatchRule struct{}

func (teacherInstrumentMismatchRule) ID() models.ConflictType {
	return models.ConflictTeacherInstrumentMismatch
}

func (teacherInstrumentMismatchRule) Evaluate(ctx ruleContext) *models.Conflict {
	// bulk imports carry pre-vetted rosters, skill matching is suppressed
	if ctx.Request.IsImport || ctx.Teacher == nil || ctx.Instrument == "" {
		return nil
	}
	if ctx.Teacher.QualifiedFor(ctx.Instrument) {
		return nil
	}
	return &models.Conflict{
		Type:     models.ConflictTeacherInstrumentMismatch,
		Severity: models.SeverityError,
		Description: fmt.Sprintf("teacher %s (faculty %s) is not qualified to teach %s",
			ctx.Teacher.Name, ctx.Teacher.FacultyCode, ctx.Instrument),
		StudentID: ctx.Student.ID,
		TeacherID: ctx.Teacher.ID,
	}
}

type studentOverloadRule struct{}

func (studentOverloadRule) ID() models.ConflictType {
	return models.ConflictStudentOverload
}

func (studentOverloadRule) Evaluate(ctx ruleContext) *models.Conflict {
	if ctx.Request.TeacherID == "" {
		return nil
	}
	assigned := ctx.Student.AssignedSlots()
	if ctx.Student.Slot(ctx.Request.Slot).TeacherID == "" {
		assigned++
	}
	if assigned < 3 {
		return nil
	}
	return &models.Conflict{
		Type:     models.ConflictStudentOverload,
		Severity: models.SeverityWarning,
		Description: fmt.Sprintf("student %s would carry %d assigned instrument slots",
			ctx.Student.Name, assigned),
		StudentID: ctx.Student.ID,
		TeacherID: ctx.Request.TeacherID,
	}
}

// teacherLoads aggregates the real current load per teacher by counting slot
// references across the roster.
func teacherLoads(students []models.Student) map[string]int {
	loads := make(map[string]int)
	for _, student := range students {
		for _, slot := range models.AllSubjectSlots {
			if id := student.Slot(slot).TeacherID; id != "" {
				loads[id]++
			}
		}
	}
	return loads
}
