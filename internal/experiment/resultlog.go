package experiment

import (
	"sync"

	"github.com/aco-bench/experiment-core/pkg/models"
)

// ResultLog is the append-only record log scoped to one session. Records
// are never overwritten in place; a failed session leaves every record
// appended before the failure intact.
type ResultLog struct {
	mu      sync.RWMutex
	records []models.OutputRecord
}

// NewResultLog creates an empty result log.
func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// Append adds a finalized record to the log.
func (l *ResultLog) Append(rec models.OutputRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Snapshot returns a copy of all records in append order.
func (l *ResultLog) Snapshot() []models.OutputRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.OutputRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of appended records.
func (l *ResultLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
