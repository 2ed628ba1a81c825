package harvest

import (
	"sync"

	"github.com/use-agent/aeroharvest/models"
)

// Accumulator is the shared, append-only result set. Every detail page
// handler appends exactly one record; order is completion order, nothing
// more. It is the only mutable state shared across the crawl.
type Accumulator struct {
	mu      sync.Mutex
	records []models.AirportRecord
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds one record. Safe under concurrent writers.
func (a *Accumulator) Append(rec models.AirportRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

// Len returns the number of accumulated records.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Snapshot returns a copy of the accumulated records.
func (a *Accumulator) Snapshot() []models.AirportRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.AirportRecord, len(a.records))
	copy(out, a.records)
	return out
}
