// Command indexbench benchmarks four key-lookup strategies over synthetic
// integer populations, either as a long-running HTTP service or as a
// one-shot run printed to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"indexbench/bench"
	"indexbench/config"
	"indexbench/dist"
	"indexbench/index"
	"indexbench/server"
	"indexbench/store"
	"indexbench/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "indexbench",
		Short:         "Benchmark key-lookup strategies over synthetic populations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config")

	root.AddCommand(newServeCmd(&cfgPath), newRunCmd(&cfgPath))
	return root
}

func newSampler(seed uint64) *dist.Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return dist.NewSampler(rand.NewSource(seed))
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			st, err := store.Open(store.Config{
				Path:       cfg.DataDir,
				SyncWrites: true,
				Logger:     log,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			runner := &bench.Runner{
				Sink:         st,
				Logger:       log,
				ShowProgress: cfg.ShowProgress,
			}
			srv := server.New(cfg, log, newSampler(cfg.Population.Seed), runner, st)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var (
		strategy     string
		distribution string
		n            int
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmarks once and print results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if n > 0 {
				cfg.Population.Size = n
			}
			if seed != 0 {
				cfg.Population.Seed = seed
			}

			var params dist.Params
			switch index.Distribution(distribution) {
			case index.DistributionUniform:
				params = cfg.Population.Uniform
			case index.DistributionNormal:
				params = cfg.Population.Normal
			default:
				return fmt.Errorf("unknown distribution %q", distribution)
			}

			strategies := index.Strategies()
			if strategy != "all" {
				st, err := index.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				strategies = []index.Strategy{st}
			}

			sampler := newSampler(cfg.Population.Seed)
			ds := bench.Dataset{
				Population: sampler.Draw(params, cfg.Population.Size),
				Queries:    sampler.Draw(params, cfg.Population.Size),
				Params:     params,
			}

			runner := &bench.Runner{
				Logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
				ShowProgress: cfg.ShowProgress,
			}

			var results []bench.Result
			for _, st := range strategies {
				res, err := runner.Run(context.Background(), st, ds)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			lines := utils.Map(results, func(r bench.Result) string {
				b, _ := json.Marshal(r)
				return string(b)
			})
			fmt.Println(strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", "all", "hashtable|binarysearch|avl|trick|all")
	cmd.Flags().StringVarP(&distribution, "distribution", "d", "uniform", "uniform|normal")
	cmd.Flags().IntVarP(&n, "num", "n", 0, "population size override")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	return cmd
}
