package memprobe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var sink []int64

func TestDeltaTracksAllocation(t *testing.T) {
	before := Take()
	sink = make([]int64, 1<<20) // 8 MiB live
	after := Take()
	d := after.Since(before)
	sink = nil

	if d.Bytes < 8<<20 {
		t.Errorf("expected at least 8 MiB of growth, got %d bytes", d.Bytes)
	}
	require.InDelta(t, 8.0, d.MB(), 2.0)
}

func TestDeltaFormatting(t *testing.T) {
	t.Parallel()
	d := Delta{Bytes: 1 << 20, Objects: 3}
	require.Equal(t, 1.0, d.MB())
	if !strings.HasPrefix(d.String(), "+") {
		t.Errorf("positive delta should render with a sign: %s", d)
	}

	neg := Delta{Bytes: -(1 << 20), Objects: -1}
	if !strings.HasPrefix(neg.String(), "-") {
		t.Errorf("negative delta should render with a sign: %s", neg)
	}
	require.Contains(t, d.JSON(), `"bytes"`)
}
