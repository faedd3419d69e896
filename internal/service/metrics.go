package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/models"
)

// Metrics encapsulates Prometheus instrumentation for the scheduling and
// validation engines. Optional everywhere: callers may pass nil.
type Metrics struct {
	registry *prometheus.Registry

	scheduleRuns      *prometheus.CounterVec
	scheduledClasses  prometheus.Counter
	unassignedCourses prometheus.Counter
	validationChecks  *prometheus.CounterVec
	conflictsByType   *prometheus.CounterVec
	historyEntries    prometheus.Counter
}

// NewMetrics registers the engine collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scheduleRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total scheduling runs by outcome",
	}, []string{"outcome"})

	scheduledClasses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_classes_placed_total",
		Help: "Total class sessions placed on the timetable",
	})

	unassignedCourses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_courses_unassigned_total",
		Help: "Total courses left with unplaced weekly hours",
	})

	validationChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_validations_total",
		Help: "Total allocation validations by outcome",
	}, []string{"outcome"})

	conflictsByType := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_conflicts_total",
		Help: "Total conflicts raised, keyed by rule",
	}, []string{"type"})

	historyEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_history_entries_total",
		Help: "Total allocation history records appended",
	})

	registry.MustRegister(scheduleRuns, scheduledClasses, unassignedCourses, validationChecks, conflictsByType, historyEntries)

	return &Metrics{
		registry:          registry,
		scheduleRuns:      scheduleRuns,
		scheduledClasses:  scheduledClasses,
		unassignedCourses: unassignedCourses,
		validationChecks:  validationChecks,
		conflictsByType:   conflictsByType,
		historyEntries:    historyEntries,
	}
}

// Registry exposes the underlying registry so the host can serve it.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveScheduleRun records the outcome of one scheduling pass.
func (m *Metrics) ObserveScheduleRun(result *dto.ScheduleResult) {
	if m == nil || result == nil {
		return
	}
	outcome := "success"
	if !result.Success {
		outcome = "partial"
	}
	m.scheduleRuns.WithLabelValues(outcome).Inc()
	m.scheduledClasses.Add(float64(len(result.ScheduledClasses)))
	m.unassignedCourses.Add(float64(len(result.UnassignedCourses)))
	for _, conflict := range result.Conflicts {
		m.conflictsByType.WithLabelValues(string(conflict.Type)).Inc()
	}
}

// ObserveValidation records the outcome of one allocation validation.
func (m *Metrics) ObserveValidation(result *dto.ValidationResult) {
	if m == nil || result == nil {
		return
	}
	outcome := "valid"
	if !result.IsValid {
		outcome = "invalid"
	}
	m.validationChecks.WithLabelValues(outcome).Inc()
	for _, conflict := range result.Conflicts {
		m.conflictsByType.WithLabelValues(string(conflict.Type)).Inc()
	}
	for _, warning := range result.Warnings {
		m.conflictsByType.WithLabelValues(string(warning.Type)).Inc()
	}
}

// ObserveHistoryEntry counts one appended history record.
func (m *Metrics) ObserveHistoryEntry(entry models.AllocationHistory) {
	if m == nil {
		return
	}
	m.historyEntries.Inc()
}
