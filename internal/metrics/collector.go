package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector produces a Snapshot of current host resource usage.
type Collector interface {
	Collect(ctx context.Context) (Snapshot, error)
}

// HostCollector reads CPU, memory and disk usage from the local host via
// gopsutil.
type HostCollector struct {
	diskPath string
}

// NewHostCollector creates a collector; diskPath is the mount point whose
// usage is reported (normally "/").
func NewHostCollector(diskPath string) *HostCollector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HostCollector{diskPath: diskPath}
}

// Collect gathers one reading. The zero CPU sampling interval means gopsutil
// compares against the previous call instead of blocking, so collection stays
// far below the sampler period.
func (c *HostCollector) Collect(ctx context.Context) (Snapshot, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("collect cpu: %w", err)
	}
	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("collect memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, c.diskPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("collect disk %q: %w", c.diskPath, err)
	}

	return Snapshot{
		Timestamp:        time.Now().UTC(),
		CPUPercent:       cpuPercent,
		MemoryUsedBytes:  vm.Used,
		MemoryTotalBytes: vm.Total,
		DiskPercent:      du.UsedPercent,
	}, nil
}
