package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vango-dev/hooks/pkg/demos"
	"github.com/vango-dev/hooks/pkg/hooks"
)

// benchCase prepares a scheduler and returns the operation to time.
type benchCase struct {
	name  string
	setup func(s *hooks.Scheduler) (op func() error, err error)
}

func benchCmd(flags *globalFlags) *cobra.Command {
	var (
		iterations int
		rows       int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure mount, update and flush latencies",
		Long: `Measure the latency of the runtime's core operations.

Each case runs on its own scheduler. Latencies are collected with
tachymeter and printed as a table.

Examples:
  hookslab bench
  hookslab bench --iterations=10000 --rows=500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(flags, iterations, rows)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Iterations per case")
	cmd.Flags().IntVarP(&rows, "rows", "r", 100, "Child rows in the fan-out cases")

	return cmd
}

func runBench(flags *globalFlags, iterations, rows int) error {
	if iterations < 1 || rows < 1 {
		return fmt.Errorf("iterations and rows must be at least 1")
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	tbl := table.NewWriter()
	tbl.SetTitle("Hooks Runtime")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "ops", "avg", "min", "p75", "p99", "max", "ops/sec"})

	for _, bc := range benchCases(rows) {
		s := newScheduler(cfg, logger, nil)
		op, err := bc.setup(s)
		if err != nil {
			return fmt.Errorf("%s: %w", bc.name, err)
		}

		tach := tachymeter.New(&tachymeter.Config{Size: iterations})
		for i := 0; i < iterations; i++ {
			start := time.Now()
			if err := op(); err != nil {
				return fmt.Errorf("%s: %w", bc.name, err)
			}
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRow(table.Row{
			bc.name,
			humanize.Comma(int64(iterations)),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
			humanize.Comma(int64(calc.Rate.Second)),
		})
	}

	tbl.Render()
	return nil
}

func benchCases(rows int) []benchCase {
	items := make([]string, rows)
	for i := range items {
		items[i] = fmt.Sprintf("item-%04d", i)
	}

	return []benchCase{
		{
			name: "mount + unmount",
			setup: func(s *hooks.Scheduler) (func() error, error) {
				return func() error {
					in, err := s.Mount(demos.Counter, nil)
					if err != nil {
						return err
					}
					return s.Unmount(in)
				}, nil
			},
		},
		{
			name: "state update",
			setup: func(s *hooks.Scheduler) (func() error, error) {
				in, err := s.Mount(demos.Counter, nil)
				if err != nil {
					return nil, err
				}
				return func() error {
					return s.Act(func() { in.Output().(demos.CounterView).Increment() })
				}, nil
			},
		},
		{
			name: "update + effect flush",
			setup: func(s *hooks.Scheduler) (func() error, error) {
				in, err := s.Mount(demos.PreviousValue, nil)
				if err != nil {
					return nil, err
				}
				return func() error {
					return s.Act(func() { in.Output().(demos.PreviousView).Increment() })
				}, nil
			},
		},
		{
			name: "memo hit",
			setup: func(s *hooks.Scheduler) (func() error, error) {
				in, err := s.Mount(demos.PrimeFilter, nil)
				if err != nil {
					return nil, err
				}
				return func() error {
					return s.Act(func() { in.Output().(demos.PrimeView).Click() })
				}, nil
			},
		},
		{
			name: fmt.Sprintf("fan-out %d rows (gated)", rows),
			setup: func(s *hooks.Scheduler) (func() error, error) {
				return searchClick(s, items, false)
			},
		},
		{
			name: fmt.Sprintf("fan-out %d rows (ungated)", rows),
			setup: func(s *hooks.Scheduler) (func() error, error) {
				return searchClick(s, items, true)
			},
		},
	}
}

func searchClick(s *hooks.Scheduler, items []string, ungated bool) (func() error, error) {
	in, err := s.Mount(demos.SearchList, demos.SearchProps{Items: items, Ungated: ungated})
	if err != nil {
		return nil, err
	}
	return func() error {
		return s.Act(func() { in.Output().(demos.SearchView).Click() })
	}, nil
}
