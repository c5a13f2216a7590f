package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/hooks/pkg/demos"
	"github.com/vango-dev/hooks/pkg/devtools"
	"github.com/vango-dev/hooks/pkg/hooks"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run a live scheduler with the devtools inspector",
		Long: `Run the scheduler loop with a ticking Timer and a SearchList mounted,
and serve the devtools inspector.

Endpoints:
  GET /instances       published instance snapshots
  GET /instances/{id}  one snapshot
  GET /batches         websocket stream of batch reports
  GET /metrics         Prometheus metrics

Examples:
  hookslab inspect
  hookslab inspect --addr=:7070`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(flags, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "A", "", "Address to serve on (default from hooks.json)")

	return cmd
}

func runInspect(flags *globalFlags, addr string) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Devtools.Addr = addr
	}
	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	sched := newScheduler(cfg, logger, reg)

	var batches atomic.Int64
	removeCounter := sched.OnBatch(func(hooks.BatchReport) { batches.Add(1) })
	defer removeCounter()

	inspector := devtools.New(sched,
		devtools.WithGatherer(reg),
		devtools.WithLogger(logger.With("component", "devtools")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\n\n  Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	clock := demos.NewRealClock(sched)
	sched.Dispatch(func() {
		timer, err := sched.Mount(demos.Timer,
			demos.TimerProps{Clock: clock, Tick: cfg.TickInterval()},
			hooks.WithName("Timer"))
		if err != nil {
			logger.Error("mount timer", "error", err)
			return
		}
		timer.Output().(demos.TimerView).Toggle()

		if _, err := sched.Mount(demos.SearchList,
			demos.SearchProps{Items: demos.Fruits},
			hooks.WithName("SearchList")); err != nil {
			logger.Error("mount search list", "error", err)
		}
	})

	loopErr := make(chan error, 1)
	go func() { loopErr <- sched.Run(ctx) }()

	printBanner()
	fmt.Println("  inspect")
	fmt.Println()
	success("Inspector on http://%s", cfg.Devtools.Addr)
	info("Instances: http://%s/instances", cfg.Devtools.Addr)
	info("Batches:   ws://%s/batches", cfg.Devtools.Addr)
	info("Metrics:   http://%s/metrics", cfg.Devtools.Addr)
	fmt.Println()

	started := time.Now()
	serveErr := inspector.ListenAndServe(ctx, cfg.Devtools.Addr)
	cancel()
	<-loopErr

	info("Committed %s batches since %s", humanize.Comma(batches.Load()), humanize.Time(started))
	return serveErr
}
