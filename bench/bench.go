// Package bench is the benchmark harness: it builds one lookup strategy
// over a dataset, times the build and a full query pass, attributes heap
// growth to the index, and emits a result record.
package bench

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/zeebo/xxh3"

	"indexbench/bench/memprobe"
	"indexbench/dist"
	"indexbench/index"
	"indexbench/index/avlidx"
	"indexbench/index/hashidx"
	"indexbench/index/interpidx"
	"indexbench/index/sortedidx"
)

// ErrEmptyPopulation is returned when a run is triggered before any
// population has been generated.
var ErrEmptyPopulation = errors.New("bench: empty population")

// Dataset is the explicit benchmark context: the population under index,
// the query keys, and the parameters they were drawn from. It is a value
// handed to the Runner by its caller; there is no hidden shared state.
type Dataset struct {
	Population []int64
	Queries    []int64
	Params     dist.Params
}

// Empty reports whether the dataset cannot support a run.
func (d Dataset) Empty() bool {
	return len(d.Population) == 0 || len(d.Queries) == 0
}

// Digest returns an xxh3 fingerprint of the population, used to correlate
// results that ran over the same data.
func (d Dataset) Digest() string {
	h := xxh3.New()
	var buf [8]byte
	for _, k := range d.Population {
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Result is one benchmark record.
type Result struct {
	RunID              string             `json:"run_id"`
	Method             index.Strategy     `json:"method"`
	Distribution       index.Distribution `json:"distribution"`
	Num                int                `json:"num"`
	DistributionParams map[string]float64 `json:"distribution_params"`
	SetupTimeMs        float64            `json:"setup_time_ms"`
	QueryTimeMs        float64            `json:"query_time_ms"`
	MemoryDeltaMb      float64            `json:"memory_delta_mb"`
	PopulationDigest   string             `json:"population_digest"`
	CompletedAt        time.Time          `json:"completed_at"`
}

// Sink persists results. Put is awaited: a failed write is reported to the
// caller, never dropped.
type Sink interface {
	Put(ctx context.Context, r Result) error
}

// Runner drives benchmark runs. A zero Runner is usable; Sink and Logger
// are optional.
type Runner struct {
	// Sink receives every result. Nil skips persistence.
	Sink Sink
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// ShowProgress renders a progress bar over long query passes.
	ShowProgress bool
}

// probe adapts one strategy to the uniform build/lookup shape the timing
// code drives. build constructs a fresh index each call.
type probe struct {
	build  func()
	lookup func(key int64)
}

func (r *Runner) probeFor(strategy index.Strategy, ds Dataset) (probe, error) {
	switch strategy {
	case index.StrategyHashtable:
		ix := hashidx.New()
		return probe{
			build:  func() { ix.Build(ds.Population) },
			lookup: func(k int64) { ix.Lookup(k) },
		}, nil
	case index.StrategyBinarySearch:
		ix := sortedidx.New()
		return probe{
			build:  func() { ix.Build(ds.Population) },
			lookup: func(k int64) { ix.Lookup(k) },
		}, nil
	case index.StrategyAVL:
		ix := avlidx.New()
		return probe{
			build:  func() { ix.Build(ds.Population) },
			lookup: func(k int64) { ix.Search(k) },
		}, nil
	case index.StrategyTrick:
		if ds.Params == nil {
			return probe{}, fmt.Errorf("bench: trick strategy needs distribution params")
		}
		ix := interpidx.New(ds.Params)
		return probe{
			build:  func() { ix.Build(ds.Population) },
			lookup: func(k int64) { ix.Lookup(k) },
		}, nil
	}
	return probe{}, fmt.Errorf("bench: unknown strategy %q", strategy)
}

// Run executes one benchmark: warm-up build with heap attribution, timed
// build, calibrated query pass, result emission. The run is synchronous and
// single-threaded; ctx only gates the sink write.
func (r *Runner) Run(ctx context.Context, strategy index.Strategy, ds Dataset) (Result, error) {
	if ds.Empty() {
		return Result{}, ErrEmptyPopulation
	}
	if ds.Params == nil {
		return Result{}, errors.New("bench: dataset has no distribution params")
	}
	p, err := r.probeFor(strategy, ds)
	if err != nil {
		return Result{}, err
	}
	log := r.logger().With("method", string(strategy), "num", len(ds.Population))

	// Warm-up build, bracketed by quiesced snapshots so the delta is the
	// live index, not build garbage.
	baseline := memprobe.Take()
	p.build()
	delta := memprobe.Take().Since(baseline)

	start := time.Now()
	p.build()
	setup := time.Since(start)

	// The calibration pass repeats the loop and call indirection with a
	// no-op body; subtracting it isolates lookup cost from iteration
	// overhead.
	calibration := r.timePass(ds.Queries, func(int64) {})
	raw := r.timePass(ds.Queries, p.lookup)
	query := raw - calibration
	if query < 0 {
		query = 0
	}

	res := Result{
		RunID:              uuid.NewString(),
		Method:             strategy,
		Distribution:       ds.Params.Kind(),
		Num:                len(ds.Population),
		DistributionParams: ds.Params.Fields(),
		SetupTimeMs:        float64(setup) / float64(time.Millisecond),
		QueryTimeMs:        float64(query) / float64(time.Millisecond),
		MemoryDeltaMb:      delta.MB(),
		PopulationDigest:   ds.Digest(),
		CompletedAt:        time.Now(),
	}

	log.Info("benchmark complete",
		"setup_ms", res.SetupTimeMs,
		"query_ms", res.QueryTimeMs,
		"mem_delta", delta.String(),
		"population", humanize.Comma(int64(res.Num)),
	)

	if r.Sink != nil {
		if err := r.Sink.Put(ctx, res); err != nil {
			log.Error("result sink write failed", "run_id", res.RunID, "error", err)
			return res, fmt.Errorf("bench: persisting result: %w", err)
		}
	}
	return res, nil
}

func (r *Runner) timePass(queries []int64, op func(int64)) time.Duration {
	var bar *progressbar.ProgressBar
	if r.ShowProgress && len(queries) >= 100_000 {
		bar = progressbar.Default(int64(len(queries)))
	}
	start := time.Now()
	for _, k := range queries {
		op(k)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return time.Since(start)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
