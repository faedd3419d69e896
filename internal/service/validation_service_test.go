package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
	"github.com/clefworks/conservatory-scheduler/pkg/config"
)

func newValidationFixture(t *testing.T) *ValidationService {
	t.Helper()
	return NewValidationService(config.ValidationConfig{
		DefaultTeacherCapacity:  8,
		AutoAcceptConfidence:    0.8,
		AltTeacherConfidence:    0.85,
		AltInstrumentConfidence: 0.7,
	}, validator.New(), zap.NewNop(), nil)
}

func rosterFixture() ([]models.Student, []models.Teacher) {
	students := []models.Student{
		{
			ID:      "s1",
			Name:    "Mara",
			Class:   "2A",
			Primary: models.InstrumentSlot{Instrument: "piano", TeacherID: "t-a"},
		},
		{
			ID:    "s2",
			Name:  "Jonas",
			Class: "2A",
		},
	}
	teachers := []models.Teacher{
		{
			ID:                  "t-a",
			Name:                "Albrecht",
			FacultyCode:         models.FacultyPiano,
			Instruments:         []string{"piano"},
			MaxStudentsPerClass: 4,
		},
		{
			ID:                  "t-b",
			Name:                "Berger",
			FacultyCode:         models.FacultyPiano,
			Instruments:         []string{"piano", "organ"},
			MaxStudentsPerClass: 4,
		},
	}
	return students, teachers
}

func TestValidateAllocationAcceptsFreeSlot(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	result, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID:  "s2",
		TeacherID:  "t-b",
		Slot:       models.SlotPrimary,
		Instrument: "piano",
	}, students, teachers)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.True(t, result.CanProceed)
	assert.Empty(t, result.Conflicts)
}

func TestValidateAllocationPrimaryAlreadyHeld(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	result, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID:  "s1",
		TeacherID:  "t-b",
		Slot:       models.SlotPrimary,
		Instrument: "piano",
	}, students, teachers)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictPrimaryDisciplineUnique, result.Conflicts[0].Type)

	// teacher t-b has spare capacity for organ, so a suggestion exists
	require.NotEmpty(t, result.Suggestions)
	suggestion := result.Suggestions[0]
	assert.Equal(t, "organ", suggestion.Instrument)
	assert.GreaterOrEqual(t, suggestion.Confidence, 0.7)
	assert.False(t, result.CanProceed)
}

func TestValidateAllocationMismatchSkippedOnImport(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	req := dto.AllocationRequest{
		StudentID:  "s2",
		TeacherID:  "t-b",
		Slot:       models.SlotSecondary1,
		Instrument: "violin",
	}

	strict, err := svc.ValidateAllocation(req, students, teachers)
	require.NoError(t, err)
	assert.False(t, strict.IsValid)

	req.IsImport = true
	relaxed, err := svc.ValidateAllocation(req, students, teachers)
	require.NoError(t, err)
	assert.True(t, relaxed.IsValid)
}

func TestValidateAllocationMissingStudent(t *testing.T) {
	svc := newValidationFixture(t)
	_, teachers := rosterFixture()

	result, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID: "ghost",
		TeacherID: "t-b",
		Slot:      models.SlotPrimary,
	}, nil, teachers)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictMissingReference, result.Conflicts[0].Type)
}

func TestValidateAllocationUnknownSlotRejected(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	_, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID: "s1",
		TeacherID: "t-b",
		Slot:      "tertiary",
	}, students, teachers)
	require.Error(t, err)
}

func TestValidateAllocationIsIdempotent(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	req := dto.AllocationRequest{
		StudentID:  "s1",
		TeacherID:  "t-b",
		Slot:       models.SlotPrimary,
		Instrument: "piano",
	}

	first, err := svc.ValidateAllocation(req, students, teachers)
	require.NoError(t, err)
	second, err := svc.ValidateAllocation(req, students, teachers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateBulkAllocationFlagsDuplicates(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	reqs := []dto.AllocationRequest{
		{StudentID: "s2", TeacherID: "t-b", Slot: models.SlotPrimary, Instrument: "piano"},
		{StudentID: "s2", TeacherID: "t-b", Slot: models.SlotPrimary, Instrument: "piano"},
	}

	result, err := svc.ValidateBulkAllocation(reqs, students, teachers)
	require.NoError(t, err)

	duplicates := 0
	for _, conflict := range result.Conflicts {
		if conflict.Type == models.ConflictDuplicateAssignment {
			duplicates++
			assert.Equal(t, []int{0, 1}, conflict.Entries)
		}
	}
	assert.Equal(t, 1, duplicates)
	assert.False(t, result.CanProceed)
}

func TestValidateBulkAllocationMissingStudentDoesNotAbort(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	reqs := []dto.AllocationRequest{
		{StudentID: "ghost", TeacherID: "t-b", Slot: models.SlotPrimary, Instrument: "piano"},
		{StudentID: "s2", TeacherID: "t-b", Slot: models.SlotPrimary, Instrument: "piano"},
	}

	result, err := svc.ValidateBulkAllocation(reqs, students, teachers)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictMissingReference, result.Conflicts[0].Type)
	assert.Equal(t, []int{0}, result.Conflicts[0].Entries)
	assert.False(t, result.CanProceed)
}

func TestValidateBulkAllocationValidBatchCanProceed(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	reqs := []dto.AllocationRequest{
		{StudentID: "s2", TeacherID: "t-b", Slot: models.SlotPrimary, Instrument: "piano"},
		{StudentID: "s2", TeacherID: "t-b", Slot: models.SlotSecondary1, Instrument: "organ"},
	}

	result, err := svc.ValidateBulkAllocation(reqs, students, teachers)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.True(t, result.CanProceed)
	assert.Empty(t, result.Conflicts)
}

func TestRuleConfigurationUpdateAndReset(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	disabled := false
	require.NoError(t, svc.UpdateRule(models.ConflictTeacherInstrumentMismatch, dto.RulePatch{Enabled: &disabled}))

	result, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID:  "s2",
		TeacherID:  "t-b",
		Slot:       models.SlotSecondary1,
		Instrument: "violin",
	}, students, teachers)
	require.NoError(t, err)
	assert.True(t, result.IsValid)

	svc.ResetRules()
	result, err = svc.ValidateAllocation(dto.AllocationRequest{
		StudentID:  "s2",
		TeacherID:  "t-b",
		Slot:       models.SlotSecondary1,
		Instrument: "violin",
	}, students, teachers)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestRuleConfigurationSeverityOverride(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	warning := models.SeverityWarning
	require.NoError(t, svc.UpdateRule(models.ConflictTeacherInstrumentMismatch, dto.RulePatch{Severity: &warning}))

	result, err := svc.ValidateAllocation(dto.AllocationRequest{
		StudentID:  "s2",
		TeacherID:  "t-b",
		Slot:       models.SlotSecondary1,
		Instrument: "violin",
	}, students, teachers)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.ConflictTeacherInstrumentMismatch, result.Warnings[0].Type)
}

func TestRuleConfigurationUnknownRule(t *testing.T) {
	svc := newValidationFixture(t)
	enabled := true
	err := svc.UpdateRule("no_such_rule", dto.RulePatch{Enabled: &enabled})
	require.Error(t, err)
}

func TestRulesReturnsFullTable(t *testing.T) {
	svc := newValidationFixture(t)
	rules := svc.Rules()
	assert.Len(t, rules, 8)
	for _, rule := range rules {
		assert.True(t, rule.Enabled)
		assert.NotEmpty(t, rule.Message)
	}
}

func TestAcceptedAllocationsKeepInstrumentsUnique(t *testing.T) {
	svc := newValidationFixture(t)
	students, teachers := rosterFixture()

	// accept a violin assignment via import (skill check relaxed)
	req := dto.AllocationRequest{
		StudentID: "s2", TeacherID: "t-b", Slot: models.SlotSecondary1,
		Instrument: "violin", IsImport: true,
	}
	result, err := svc.ValidateAllocation(req, students, teachers)
	require.NoError(t, err)
	require.True(t, result.IsValid)
	students[1] = students[1].SetSlot(models.SlotSecondary1, models.InstrumentSlot{Instrument: "violin", TeacherID: "t-b"})

	// the same instrument in another slot must now be rejected
	result, err = svc.ValidateAllocation(dto.AllocationRequest{
		StudentID: "s2", TeacherID: "t-a", Slot: models.SlotSecondary2,
		Instrument: "violin", IsImport: true,
	}, students, teachers)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictInstrumentUnique, result.Conflicts[0].Type)
}
