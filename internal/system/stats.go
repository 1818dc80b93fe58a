package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host is a point-in-time view of the machine the run executed on.
type Host struct {
	LogicalCPUs   int
	MemoryTotal   uint64
	MemoryUsedPct float64
}

// Snapshot collects host stats. Fields that cannot be read stay zero and
// the first error is returned alongside.
func Snapshot() (Host, error) {
	var h Host
	var firstErr error

	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCPUs = n
	} else {
		firstErr = err
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemoryTotal = vm.Total
		h.MemoryUsedPct = vm.UsedPercent
	} else if firstErr == nil {
		firstErr = err
	}

	return h, firstErr
}

// RunStats summarizes one run for the performance report.
type RunStats struct {
	BuildVersion string
	Jobs         int
	Failed       int
	Regions      int
	Total        time.Duration
	Predict      time.Duration
	Host         Host
}

func FormatReport(s RunStats) string {
	var b strings.Builder
	b.WriteString("--- [PERFORMANCE REPORT] ---\n")
	if s.BuildVersion != "" {
		fmt.Fprintf(&b, "Build: %s\n", s.BuildVersion)
	}
	fmt.Fprintf(&b, "Jobs: %d (failed: %d)\n", s.Jobs, s.Failed)
	fmt.Fprintf(&b, "Regions censored: %d\n", s.Regions)
	fmt.Fprintf(&b, "Total Time: %.2fs\n", s.Total.Seconds())
	fmt.Fprintf(&b, "Prediction: %.2fs\n", s.Predict.Seconds())
	if s.Jobs > 0 {
		fmt.Fprintf(&b, "Per Job: %.3fs\n", s.Total.Seconds()/float64(s.Jobs))
	}
	if s.Host.LogicalCPUs > 0 {
		fmt.Fprintf(&b, "Host: %d CPUs, %.1f GiB, %.1f%% memory used\n",
			s.Host.LogicalCPUs, float64(s.Host.MemoryTotal)/(1<<30), s.Host.MemoryUsedPct)
	}
	b.WriteString("----------------------------\n")
	return b.String()
}
