package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clefworks/conservatory-scheduler/internal/models"
)

// allocationHistoryLog is the only mutable state inside the validation
// service: an append-only log with incrementally maintained statistics.
// Appends are serialized behind the mutex so shared instances stay
// consistent.
type allocationHistoryLog struct {
	mu      sync.RWMutex
	limit   int
	entries []models.AllocationHistory
	stats   models.AllocationStats
}

func newAllocationHistoryLog(limit int) *allocationHistoryLog {
	return &allocationHistoryLog{
		limit: limit,
		stats: models.AllocationStats{
			InstrumentRequests: make(map[string]int),
			TeacherWorkload:    make(map[string]int),
		},
	}
}

// RecordHistory appends an immutable record and updates the running
// statistics. Missing ids and timestamps are filled in.
func (s *ValidationService) RecordHistory(entry models.AllocationHistory) {
	s.history.append(entry)
	if s.metrics != nil {
		s.metrics.ObserveHistoryEntry(entry)
	}
}

// History returns matching records, newest first.
func (s *ValidationService) History(filter models.AllocationHistoryFilter) []models.AllocationHistory {
	return s.history.list(filter)
}

// Stats returns a snapshot of the derived statistics.
func (s *ValidationService) Stats() models.AllocationStats {
	return s.history.snapshot()
}

func (l *allocationHistoryLog) append(entry models.AllocationHistory) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}

	l.stats.TotalAssignments++
	if entry.Success {
		l.stats.SuccessfulAssignments++
	} else {
		l.stats.FailedAssignments++
	}
	if entry.Instrument != "" {
		l.stats.InstrumentRequests[entry.Instrument]++
	}
	if entry.Success {
		if entry.TeacherIDAfter != "" {
			l.stats.TeacherWorkload[entry.TeacherIDAfter]++
		}
		if entry.TeacherIDBefore != "" && entry.TeacherIDBefore != entry.TeacherIDAfter {
			if l.stats.TeacherWorkload[entry.TeacherIDBefore] > 0 {
				l.stats.TeacherWorkload[entry.TeacherIDBefore]--
			}
		}
	}
}

func (l *allocationHistoryLog) list(filter models.AllocationHistoryFilter) []models.AllocationHistory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]models.AllocationHistory, 0, len(l.entries))
	for _, entry := range l.entries {
		if filter.StudentID != "" && entry.StudentID != filter.StudentID {
			continue
		}
		if filter.TeacherID != "" && entry.TeacherIDBefore != filter.TeacherID && entry.TeacherIDAfter != filter.TeacherID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if !filter.From.IsZero() && entry.Timestamp.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.Timestamp.After(filter.To) {
			continue
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

func (l *allocationHistoryLog) snapshot() models.AllocationStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := models.AllocationStats{
		TotalAssignments:      l.stats.TotalAssignments,
		SuccessfulAssignments: l.stats.SuccessfulAssignments,
		FailedAssignments:     l.stats.FailedAssignments,
		InstrumentRequests:    make(map[string]int, len(l.stats.InstrumentRequests)),
		TeacherWorkload:       make(map[string]int, len(l.stats.TeacherWorkload)),
	}
	for k, v := range l.stats.InstrumentRequests {
		snapshot.InstrumentRequests[k] = v
	}
	for k, v := range l.stats.TeacherWorkload {
		snapshot.TeacherWorkload[k] = v
	}
	return snapshot
}
