// Package sysmem provides domain.MemoryReader implementations backed by the
// operating system and by the Go runtime.
package sysmem

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessReader reports the resident set size of the current process against
// total physical memory, via gopsutil. Per the reader contract every read
// failure degrades to 0.
type ProcessReader struct {
	pid int32
}

// NewProcessReader creates a reader bound to the current process.
func NewProcessReader() *ProcessReader {
	return &ProcessReader{pid: int32(os.Getpid())}
}

// CurrentUsedBytes returns the process resident memory in bytes.
func (r *ProcessReader) CurrentUsedBytes() uint64 {
	proc, err := process.NewProcess(r.pid)
	if err != nil {
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return info.RSS
}

// TotalBytes returns total physical memory in bytes.
func (r *ProcessReader) TotalBytes() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Total
}

// RuntimeReader reports the Go heap view from runtime.ReadMemStats: heap
// bytes in use against bytes obtained from the OS. Cheaper than ProcessReader
// and useful where only the Go-managed portion matters.
type RuntimeReader struct{}

func (RuntimeReader) CurrentUsedBytes() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func (RuntimeReader) TotalBytes() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.Sys
}
