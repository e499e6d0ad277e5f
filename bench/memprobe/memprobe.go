// Package memprobe takes GC-quiesced heap snapshots so the harness can
// attribute heap growth to an index build.
package memprobe

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// Snapshot captures live-heap numbers after a forced collection.
type Snapshot struct {
	HeapAlloc   uint64    `json:"heap_alloc"`
	HeapObjects uint64    `json:"heap_objects"`
	TakenAt     time.Time `json:"taken_at"`
}

// Take runs the GC and reads the resulting heap stats. Forcing a collection
// keeps garbage from an earlier phase out of the measured delta.
func Take() Snapshot {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Snapshot{
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		TakenAt:     time.Now(),
	}
}

// Delta is the signed heap growth between two snapshots. Negative values
// are possible when the collector reclaims more than the phase allocated.
type Delta struct {
	Bytes   int64 `json:"bytes"`
	Objects int64 `json:"objects"`
}

// Since returns the growth from prev to s.
func (s Snapshot) Since(prev Snapshot) Delta {
	return Delta{
		Bytes:   int64(s.HeapAlloc) - int64(prev.HeapAlloc),
		Objects: int64(s.HeapObjects) - int64(prev.HeapObjects),
	}
}

// MB returns the byte delta in megabytes.
func (d Delta) MB() float64 {
	return float64(d.Bytes) / (1024 * 1024)
}

// String renders the delta with humanized units.
func (d Delta) String() string {
	sign := "+"
	b := d.Bytes
	if b < 0 {
		sign = "-"
		b = -b
	}
	return fmt.Sprintf("%s%s (%+d objects)", sign, humanize.IBytes(uint64(b)), d.Objects)
}

// JSON returns a JSON representation of the delta.
func (d Delta) JSON() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}
