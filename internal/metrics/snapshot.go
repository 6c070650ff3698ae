// Package metrics samples host resource usage on a fixed cadence into a
// bounded, concurrency-safe history buffer. Telemetry is per-instance by
// design: the numbers describe this host, so no cross-instance coordination
// is wanted.
package metrics

import (
	"fmt"
	"time"

	"github.com/calebhoward/bastion/internal/models"
)

// Snapshot is one immutable host metrics reading.
type Snapshot struct {
	Timestamp        time.Time `json:"timestamp"`
	CPUPercent       float64   `json:"cpu_usage_percent"`
	MemoryUsedBytes  uint64    `json:"memory_used_bytes"`
	MemoryTotalBytes uint64    `json:"memory_total_bytes"`
	DiskPercent      float64   `json:"disk_usage_percent"`
}

// Validate checks the snapshot's range invariants: percentages in [0,100] and
// memory used not above total.
func (s Snapshot) Validate() error {
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		return fmt.Errorf("cpu %.2f%%: %w", s.CPUPercent, models.ErrInvalidSample)
	}
	if s.DiskPercent < 0 || s.DiskPercent > 100 {
		return fmt.Errorf("disk %.2f%%: %w", s.DiskPercent, models.ErrInvalidSample)
	}
	if s.MemoryUsedBytes > s.MemoryTotalBytes {
		return fmt.Errorf("memory used %d > total %d: %w",
			s.MemoryUsedBytes, s.MemoryTotalBytes, models.ErrInvalidSample)
	}
	return nil
}

// Clamp returns a copy with percentages forced into [0,100] and memory used
// capped at total. Some platforms report transient readings slightly out of
// range; clamping keeps those usable instead of discarding the whole tick.
func (s Snapshot) Clamp() Snapshot {
	s.CPUPercent = clampPercent(s.CPUPercent)
	s.DiskPercent = clampPercent(s.DiskPercent)
	if s.MemoryUsedBytes > s.MemoryTotalBytes {
		s.MemoryUsedBytes = s.MemoryTotalBytes
	}
	return s
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
