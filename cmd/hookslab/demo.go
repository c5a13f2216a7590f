package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vango-dev/hooks/pkg/demos"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		showBatches bool
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Run a scripted demo",
		Long: `Run a scripted demo step by step on a manual clock.

Each step prints the component's output after the step committed.
With --batches, the batch reports of every step follow as a table.

Examples:
  hookslab demo counter
  hookslab demo search --batches
  hookslab demo --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				for _, d := range demos.Catalog() {
					if err := runDemo(flags, d.Name, showBatches); err != nil {
						return err
					}
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("demo name required (see 'hookslab list')")
			}
			return runDemo(flags, args[0], showBatches)
		},
	}

	cmd.Flags().BoolVarP(&showBatches, "batches", "b", false, "Print batch reports")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Run every demo")

	return cmd
}

func runDemo(flags *globalFlags, name string, showBatches bool) error {
	d, err := demos.Lookup(name)
	if err != nil {
		return err
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	sched := newScheduler(cfg, newLogger(cfg), nil)
	env := demos.Env{Tick: cfg.TickInterval(), FetchDelay: cfg.FetchDelay()}
	steps, runErr := d.Run(sched, env)

	fmt.Printf("\n\033[1m%s\033[0m  %s\n\n", d.Name, d.Summary)
	for i, st := range steps {
		fmt.Printf("\033[36m%2d. %s\033[0m\n", i+1, st.Step)
		for _, line := range strings.Split(st.Output, "\n") {
			info("%s", line)
		}
		if st.Err != nil {
			warn("%v", st.Err)
		}
	}
	fmt.Println()

	if showBatches {
		printBatches(d.Name, steps)
	}
	return runErr
}

func printBatches(name string, steps []demos.StepResult) {
	tbl := table.NewWriter()
	tbl.SetTitle("Batches: " + name)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"step", "seq", "pass", "rendered", "skipped", "unmounted", "effects", "cleanups", "errors", "duration"})
	for _, st := range steps {
		for _, b := range st.Batches {
			tbl.AppendRow(table.Row{
				st.Step,
				b.Seq,
				b.Pass,
				ids(b.Rendered),
				ids(b.Skipped),
				ids(b.Unmounted),
				b.EffectsRun,
				b.CleanupsRun,
				len(b.Errors),
				b.Duration,
			})
		}
	}
	tbl.Render()
}

func ids(list []uint64) string {
	if len(list) == 0 {
		return "-"
	}
	parts := make([]string, len(list))
	for i, id := range list {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
