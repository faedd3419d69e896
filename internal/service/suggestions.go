package service

import (
	"fmt"

	"github.com/clefworks/conservatory-scheduler/internal/models"
)

// suggest proposes remediations for each conflict. Teachers are scanned in
// input order so repeated validations yield identical suggestion sets.
func (s *ValidationService) suggest(ctx ruleContext, conflicts []models.Conflict) []models.Suggestion {
	suggestions := make([]models.Suggestion, 0, len(conflicts))
	for _, conflict := range conflicts {
		switch conflict.Type {
		case models.ConflictTeacherInstrumentMismatch, models.ConflictTeacherCapacity:
			if alt, ok := s.alternateTeacher(ctx); ok {
				suggestions = append(suggestions, alt)
			}
		case models.ConflictPrimaryDisciplineUnique, models.ConflictInstrumentUnique:
			if alt, ok := s.alternateInstrument(ctx); ok {
				suggestions = append(suggestions, alt)
			}
		}
	}
	return suggestions
}

// alternateTeacher finds another teacher qualified for the instrument with
// spare capacity.
func (s *ValidationService) alternateTeacher(ctx ruleContext) (models.Suggestion, bool) {
	for _, teacher := range ctx.Teachers {
		if teacher.ID == ctx.Request.TeacherID {
			continue
		}
		if !teacher.QualifiedFor(ctx.Instrument) {
			continue
		}
		capacity := teacher.MaxStudentsPerClass
		if capacity <= 0 {
			capacity = ctx.Config.DefaultTeacherCapacity
		}
		if capacity > 0 && ctx.Load[teacher.ID] >= capacity {
			continue
		}
		return models.Suggestion{
			ConflictType: models.ConflictTeacherInstrumentMismatch,
			Description:  fmt.Sprintf("assign teacher %s, qualified for %s with spare capacity", teacher.Name, ctx.Instrument),
			TeacherID:    teacher.ID,
			Instrument:   ctx.Instrument,
			Slot:         ctx.Request.Slot,
			Confidence:   s.cfg.AltTeacherConfidence,
		}, true
	}
	return models.Suggestion{}, false
}

// alternateInstrument proposes another instrument the same teacher offers
// that the student does not study yet.
func (s *ValidationService) alternateInstrument(ctx ruleContext) (models.Suggestion, bool) {
	if ctx.Teacher == nil {
		return models.Suggestion{}, false
	}
	capacity := ctx.Teacher.MaxStudentsPerClass
	if capacity <= 0 {
		capacity = ctx.Config.DefaultTeacherCapacity
	}
	if capacity > 0 && ctx.Load[ctx.Teacher.ID] >= capacity {
		return models.Suggestion{}, false
	}

	offered := append([]string{}, ctx.Teacher.Instruments...)
	offered = append(offered, ctx.Teacher.TeachingCapable...)
	offered = append(offered, models.FacultyInstruments(ctx.Teacher.FacultyCode)...)

	taken := make(map[string]bool, len(models.AllSubjectSlots))
	for _, slot := range models.AllSubjectSlots {
		if instrument := ctx.Student.Slot(slot).Instrument; instrument != "" {
			taken[instrument] = true
		}
	}

	for _, instrument := range offered {
		if instrument == "" || instrument == ctx.Instrument || taken[instrument] {
			continue
		}
		return models.Suggestion{
			ConflictType: models.ConflictPrimaryDisciplineUnique,
			Description: fmt.Sprintf("keep teacher %s but study %s in a free slot instead",
				ctx.Teacher.Name, instrument),
			TeacherID:  ctx.Teacher.ID,
			Instrument: instrument,
			Confidence: s.cfg.AltInstrumentConfidence,
		}, true
	}
	return models.Suggestion{}, false
}
