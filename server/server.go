// Package server exposes the HTTP trigger layer: two generation endpoints
// and one benchmark endpoint per (strategy, distribution) pair, plus result
// listing, health and metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"indexbench/bench"
	"indexbench/config"
	"indexbench/dist"
	"indexbench/index"
)

// Lister is the read side of the result store.
type Lister interface {
	List(ctx context.Context, limit int) ([]bench.Result, error)
}

// Server owns the current dataset and routes triggers to the harness.
//
// The dataset is guarded by a mutex: a generate call swaps it atomically
// while a running benchmark keeps the snapshot it captured at start. The
// system this replaces left the equivalent state unsynchronized, so a
// generate racing a benchmark could swap the data mid-run.
type Server struct {
	cfg     config.Config
	log     *slog.Logger
	runner  *bench.Runner
	lister  Lister
	sampler *dist.Sampler

	mu      sync.RWMutex
	dataset bench.Dataset

	engine *gin.Engine
}

// New wires the routes. runner.Sink should already point at the result
// store; lister may be nil to disable GET /results.
func New(cfg config.Config, log *slog.Logger, sampler *dist.Sampler, runner *bench.Runner, lister Lister) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		runner:  runner,
		lister:  lister,
		sampler: sampler,
	}
	e := gin.New()
	e.Use(gin.Recovery())

	e.POST("/generate/uniform", s.generate(cfg.Population.Uniform))
	e.POST("/generate/normal", s.generate(cfg.Population.Normal))
	e.POST("/benchmark/:method/:distribution", s.benchmark)
	e.GET("/results", s.results)
	e.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = e
	return s
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.ListenAddr, Handler: s.engine}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", s.cfg.ListenAddr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) generate(params dist.Params) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := s.cfg.Population.Size
		ds := bench.Dataset{
			Population: s.sampler.Draw(params, n),
			Queries:    s.sampler.Draw(params, n),
			Params:     params,
		}

		s.mu.Lock()
		s.dataset = ds
		s.mu.Unlock()

		generationsTotal.WithLabelValues(string(params.Kind())).Inc()
		s.log.Info("dataset generated", "distribution", string(params.Kind()), "num", n)
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"distribution": params.Kind(),
			"num":          n,
		})
	}
}

func (s *Server) benchmark(c *gin.Context) {
	method, err := index.ParseStrategy(c.Param("method"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	distribution, err := index.ParseDistribution(c.Param("distribution"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	if ds.Empty() {
		c.JSON(http.StatusConflict, gin.H{"error": "no population generated yet"})
		return
	}
	if ds.Params.Kind() != distribution {
		c.JSON(http.StatusConflict, gin.H{
			"error": "current population was generated from a different distribution",
			"have":  ds.Params.Kind(),
			"want":  distribution,
		})
		return
	}

	start := time.Now()
	res, err := s.runner.Run(c.Request.Context(), method, ds)
	switch {
	case errors.Is(err, bench.ErrEmptyPopulation):
		runsTotal.WithLabelValues(string(method), string(distribution), "rejected").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		runsTotal.WithLabelValues(string(method), string(distribution), "error").Inc()
		s.log.Error("benchmark failed", "method", string(method), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	runsTotal.WithLabelValues(string(method), string(distribution), "ok").Inc()
	runDuration.WithLabelValues(string(method), string(distribution)).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": res})
}

func (s *Server) results(c *gin.Context) {
	if s.lister == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result listing disabled"})
		return
	}
	results, err := s.lister.List(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
