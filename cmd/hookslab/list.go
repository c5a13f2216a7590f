package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vango-dev/hooks/pkg/demos"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scripted demos",
		Long: `List every scripted demo with the hooks it exercises.

Examples:
  hookslab list
  hookslab demo counter`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tbl := table.NewWriter()
			tbl.SetTitle("Demos")
			tbl.SetOutputMirror(os.Stdout)
			tbl.AppendHeader(table.Row{"name", "hooks", "summary"})
			for _, d := range demos.Catalog() {
				tbl.AppendRow(table.Row{d.Name, strings.Join(d.Hooks, ", "), d.Summary})
			}
			tbl.Render()
		},
	}
}
