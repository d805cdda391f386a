// Package sysinfo captures the host hardware context measurements are
// taken on, so emitted results can be traced back to the machine that
// produced them.
package sysinfo

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// Snapshot describes the measuring host.
type Snapshot struct {
	Platform      string `json:"platform"`
	CPUModel      string `json:"cpu_model"`
	LogicalCores  int    `json:"logical_cores"`
	TotalRAMBytes uint64 `json:"total_ram_bytes"`
}

// Collect gathers a best-effort snapshot. Probe failures leave the
// corresponding fields empty rather than failing the session.
func Collect() *Snapshot {
	s := &Snapshot{}
	if hi, err := host.Info(); err == nil {
		s.Platform = hi.Platform
	}
	if ci, err := cpu.Info(); err == nil && len(ci) > 0 {
		s.CPUModel = ci[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalRAMBytes = vm.Total
	}
	return s
}
