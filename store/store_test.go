package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"indexbench/bench"
	"indexbench/index"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult(i int) bench.Result {
	return bench.Result{
		RunID:              uuid.NewString(),
		Method:             index.StrategyHashtable,
		Distribution:       index.DistributionUniform,
		Num:                1_000 + i,
		DistributionParams: map[string]float64{"low": 0, "high": 100},
		SetupTimeMs:        1.5,
		QueryTimeMs:        0.25,
		MemoryDeltaMb:      3.75,
		PopulationDigest:   fmt.Sprintf("%016x", i),
		CompletedAt:        time.Unix(1_700_000_000+int64(i), 0).UTC(),
	}
}

func TestPutListRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var want []bench.Result
	for i := 0; i < 5; i++ {
		r := sampleResult(i)
		require.NoError(t, s.Put(ctx, r))
		want = append(want, r)
	}

	got, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	// Newest first.
	for i, r := range got {
		require.Equal(t, want[len(want)-1-i].RunID, r.RunID)
	}
	require.Equal(t, want[4].DistributionParams, got[0].DistributionParams)
	require.Equal(t, want[4].CompletedAt, got[0].CompletedAt)
}

func TestListLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Put(ctx, sampleResult(i)))
	}

	got, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestEmptyList(t *testing.T) {
	s := openTestStore(t)
	got, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Put(context.Background(), sampleResult(0)), ErrClosed)
	_, err = s.List(context.Background(), 0)
	require.ErrorIs(t, err, ErrClosed)
}

func TestCancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Put(ctx, sampleResult(0)))
	_, err := s.List(ctx, 0)
	require.Error(t, err)
}

func TestPersistentReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.SyncWrites = false

	s, err := Open(cfg)
	require.NoError(t, err)
	r := sampleResult(1)
	require.NoError(t, s.Put(context.Background(), r))
	require.NoError(t, s.Close())

	s, err = Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, r.RunID, got[0].RunID)
}
