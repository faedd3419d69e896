package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
	"github.com/clefworks/conservatory-scheduler/pkg/config"
	appErrors "github.com/clefworks/conservatory-scheduler/pkg/errors"
)

// ValidationService enforces the allocation invariants when assigning
// students to teachers. Rule outcomes are data, never errors: expected
// domain conditions surface as Conflict values so callers decide how to
// proceed. Instances are safe for concurrent use.
type ValidationService struct {
	cfg       config.ValidationConfig
	rules     []allocationRule
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *Metrics

	configMu    sync.RWMutex
	ruleConfigs map[models.ConflictType]dto.RuleConfig

	history *allocationHistoryLog
}

// NewValidationService wires the rule engine with its default rule table.
func NewValidationService(cfg config.ValidationConfig, validate *validator.Validate, logger *zap.Logger, metrics *Metrics) *ValidationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AutoAcceptConfidence <= 0 {
		cfg.AutoAcceptConfidence = 0.8
	}
	if cfg.AltTeacherConfidence <= 0 {
		cfg.AltTeacherConfidence = 0.85
	}
	if cfg.AltInstrumentConfidence <= 0 {
		cfg.AltInstrumentConfidence = 0.7
	}
	return &ValidationService{
		cfg:         cfg,
		rules:       defaultRules(),
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
		ruleConfigs: defaultRuleConfigs(),
		history:     newAllocationHistoryLog(cfg.HistoryLimit),
	}
}

// ValidateAllocation runs every enabled rule against the proposed
// (student, teacher, slot) triple and derives remediation suggestions.
func (s *ValidationService) ValidateAllocation(req dto.AllocationRequest, students []models.Student, teachers []models.Teacher) (*dto.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid allocation payload")
	}
	if !models.ValidSubjectSlot(req.Slot) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown subject slot %q", req.Slot))
	}

	result := s.validateOne(req, students, teachers)
	if s.metrics != nil {
		s.metrics.ObserveValidation(result)
	}
	return result, nil
}

func (s *ValidationService) validateOne(req dto.AllocationRequest, students []models.Student, teachers []models.Teacher) *dto.ValidationResult {
	result := &dto.ValidationResult{
		Conflicts:   make([]models.Conflict, 0),
		Warnings:    make([]models.Conflict, 0),
		Suggestions: make([]models.Suggestion, 0),
	}

	student, ok := findStudent(students, req.StudentID)
	if !ok {
		result.Conflicts = append(result.Conflicts, s.configured(models.Conflict{
			Type:        models.ConflictMissingReference,
			Severity:    models.SeverityError,
			Description: fmt.Sprintf("student %s not found", req.StudentID),
			StudentID:   req.StudentID,
			TeacherID:   req.TeacherID,
		}))
		return result
	}

	var teacher *models.Teacher
	if req.TeacherID != "" {
		found, ok := findTeacher(teachers, req.TeacherID)
		if !ok {
			result.Conflicts = append(result.Conflicts, s.configured(models.Conflict{
				Type:        models.ConflictMissingReference,
				Severity:    models.SeverityError,
				Description: fmt.Sprintf("teacher %s not found", req.TeacherID),
				StudentID:   req.StudentID,
				TeacherID:   req.TeacherID,
			}))
			return result
		}
		teacher = &found
	}

	instrument := req.Instrument
	if instrument == "" {
		instrument = student.Slot(req.Slot).Instrument
	}

	ctx := ruleContext{
		Request:    req,
		Student:    student,
		Teacher:    teacher,
		Instrument: instrument,
		Students:   students,
		Teachers:   teachers,
		Load:       teacherLoads(students),
		Config:     s.cfg,
	}

	for _, rule := range s.rules {
		cfg, enabled := s.ruleConfig(rule.ID())
		if !enabled {
			continue
		}
		conflict := rule.Evaluate(ctx)
		if conflict == nil {
			continue
		}
		conflict.Severity = cfg.Severity
		if conflict.Description == "" {
			conflict.Description = cfg.Message
		}
		if conflict.Severity == models.SeverityError {
			result.Conflicts = append(result.Conflicts, *conflict)
		} else {
			result.Warnings = append(result.Warnings, *conflict)
		}
	}

	result.Suggestions = s.suggest(ctx, result.Conflicts)
	result.IsValid = len(result.Conflicts) == 0
	result.CanProceed = result.IsValid || bestConfidence(result.Suggestions) >= s.cfg.AutoAcceptConfidence
	return result
}

// ValidateBulkAllocation validates each allocation independently across
// goroutines, then runs the cross-item duplicate pass once every per-item
// result is in. Input-shape problems become conflicts, never panics, so a
// bulk run always completes.
func (s *ValidationService) ValidateBulkAllocation(reqs []dto.AllocationRequest, students []models.Student, teachers []models.Teacher) (*dto.ValidationResult, error) {
	results := make([]*dto.ValidationResult, len(reqs))

	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			req := reqs[idx]
			if !models.ValidSubjectSlot(req.Slot) || req.StudentID == "" {
				results[idx] = &dto.ValidationResult{Conflicts: []models.Conflict{s.configured(models.Conflict{
					Type:        models.ConflictMissingReference,
					Severity:    models.SeverityError,
					Description: fmt.Sprintf("allocation %d is malformed: student %q, slot %q", idx, req.StudentID, req.Slot),
					StudentID:   req.StudentID,
					TeacherID:   req.TeacherID,
					Entries:     []int{idx},
				})}}
				return
			}
			results[idx] = s.validateOne(req, students, teachers)
		}(i)
	}
	wg.Wait()

	aggregate := &dto.ValidationResult{
		Conflicts:   make([]models.Conflict, 0),
		Warnings:    make([]models.Conflict, 0),
		Suggestions: make([]models.Suggestion, 0),
	}
	for idx, item := range results {
		for _, conflict := range item.Conflicts {
			if len(conflict.Entries) == 0 {
				conflict.Entries = []int{idx}
			}
			aggregate.Conflicts = append(aggregate.Conflicts, conflict)
		}
		for _, warning := range item.Warnings {
			if len(warning.Entries) == 0 {
				warning.Entries = []int{idx}
			}
			aggregate.Warnings = append(aggregate.Warnings, warning)
		}
		aggregate.Suggestions = append(aggregate.Suggestions, item.Suggestions...)
	}

	aggregate.Conflicts = append(aggregate.Conflicts, s.findDuplicates(reqs)...)

	aggregate.IsValid = len(aggregate.Conflicts) == 0
	// bulk mode never auto-accepts on suggestion confidence
	aggregate.CanProceed = aggregate.IsValid
	if s.metrics != nil {
		s.metrics.ObserveValidation(aggregate)
	}
	s.logger.Info("bulk allocation validated",
		zap.Int("allocations", len(reqs)),
		zap.Int("conflicts", len(aggregate.Conflicts)),
		zap.Int("warnings", len(aggregate.Warnings)),
		zap.Bool("canProceed", aggregate.CanProceed),
	)
	return aggregate, nil
}

// findDuplicates flags identical (student, teacher, slot) triples across the
// batch. Each group of duplicates yields a single conflict referencing every
// entry involved.
func (s *ValidationService) findDuplicates(reqs []dto.AllocationRequest) []models.Conflict {
	if _, enabled := s.ruleConfig(models.ConflictDuplicateAssignment); !enabled {
		return nil
	}
	type tripleKey struct {
		Student string
		Teacher string
		Slot    models.SubjectSlot
	}
	seen := make(map[tripleKey][]int)
	order := make([]tripleKey, 0, len(reqs))
	for idx, req := range reqs {
		key := tripleKey{Student: req.StudentID, Teacher: req.TeacherID, Slot: req.Slot}
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], idx)
	}

	var conflicts []models.Conflict
	for _, key := range order {
		entries := seen[key]
		if len(entries) < 2 {
			continue
		}
		conflicts = append(conflicts, s.configured(models.Conflict{
			Type:     models.ConflictDuplicateAssignment,
			Severity: models.SeverityError,
			Description: fmt.Sprintf("allocation (%s, %s, %s) appears %d times in the batch",
				key.Student, key.Teacher, key.Slot, len(entries)),
			StudentID: key.Student,
			TeacherID: key.Teacher,
			Entries:   entries,
		}))
	}
	return conflicts
}

// Rules returns the rule configuration table in stable order.
func (s *ValidationService) Rules() []dto.RuleConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	rules := make([]dto.RuleConfig, 0, len(s.ruleConfigs))
	for _, cfg := range s.ruleConfigs {
		rules = append(rules, cfg)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// UpdateRule patches one rule's configuration.
func (s *ValidationService) UpdateRule(id models.ConflictType, patch dto.RulePatch) error {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	cfg, ok := s.ruleConfigs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown validation rule %q", id))
	}
	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.Severity != nil {
		switch *patch.Severity {
		case models.SeverityError, models.SeverityWarning, models.SeverityInfo:
			cfg.Severity = *patch.Severity
		default:
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown severity %q", *patch.Severity))
		}
	}
	if patch.Message != nil {
		cfg.Message = *patch.Message
	}
	s.ruleConfigs[id] = cfg
	return nil
}

// ResetRules restores the default rule table.
func (s *ValidationService) ResetRules() {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.ruleConfigs = defaultRuleConfigs()
}

func (s *ValidationService) ruleConfig(id models.ConflictType) (dto.RuleConfig, bool) {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	cfg, ok := s.ruleConfigs[id]
	if !ok {
		return dto.RuleConfig{}, false
	}
	return cfg, cfg.Enabled
}

// configured applies severity/message overrides to conflicts raised outside
// the rule pipeline.
func (s *ValidationService) configured(conflict models.Conflict) models.Conflict {
	if cfg, ok := s.ruleConfig(conflict.Type); ok {
		conflict.Severity = cfg.Severity
	}
	return conflict
}

func findStudent(students []models.Student, id string) (models.Student, bool) {
	for _, student := range students {
		if student.ID == id {
			return student, true
		}
	}
	return models.Student{}, false
}

func findTeacher(teachers []models.Teacher, id string) (models.Teacher, bool) {
	for _, teacher := range teachers {
		if teacher.ID == id {
			return teacher, true
		}
	}
	return models.Teacher{}, false
}

func bestConfidence(suggestions []models.Suggestion) float64 {
	best := 0.0
	for _, suggestion := range suggestions {
		if suggestion.Confidence > best {
			best = suggestion.Confidence
		}
	}
	return best
}
