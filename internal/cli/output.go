package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// render writes v as indented JSON in --json mode and as a table otherwise.
func (a *app) render(cmd *cobra.Command, v any, header []string, rows [][]string) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), v)
	}
	printTable(cmd.OutOrStdout(), header, rows)
	return nil
}

// message prints a one-line confirmation, or v as JSON in --json mode.
func (a *app) message(cmd *cobra.Command, v any, format string, args ...any) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printTable(w io.Writer, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(tableRow(header))
	for _, r := range rows {
		t.AppendRow(tableRow(r))
	}
	t.Render()
}

func tableRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func rowsOf[T types.Record](rs []T) [][]string {
	rows := make([][]string, len(rs))
	for i, r := range rs {
		rows[i] = r.Row()
	}
	return rows
}
