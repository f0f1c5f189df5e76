package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/journal"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit, trim int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or trim the change journal",
		Long: `History prints the journal of store mutations, oldest first. The journal
is written only when journal: true is set in config.yaml.

With --trim N the journal is rewritten to keep only the newest N entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}
			path := filepath.Join(dataDir, journal.FileName)

			if cmd.Flags().Changed("trim") {
				if trim < 0 {
					return fmt.Errorf("--trim must not be negative, got %d", trim)
				}
				removed, err := journal.Trim(path, trim)
				if err != nil {
					return systemError(err)
				}
				return a.message(cmd, map[string]int{"removed": removed}, "Removed %d journal entries", removed)
			}

			entries, err := journal.Read(path)
			if err != nil {
				return systemError(err)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = historyRow(e)
			}
			return a.render(cmd, entries,
				[]string{"At", "Operation", "Kind", "Record", "Field", "Related", "Count"}, rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the newest N entries (0: all)")
	cmd.Flags().IntVar(&trim, "trim", 0, "keep only the newest N entries")
	return cmd
}

func historyRow(e journal.Entry) []string {
	related, count := "", ""
	if e.Related != 0 {
		related = e.Related.String()
	}
	if e.Count != 0 {
		count = strconv.Itoa(e.Count)
	}
	return []string{
		e.At.Local().Format(time.DateTime),
		string(e.Operation),
		e.Kind,
		e.RecordID.String(),
		e.Field,
		related,
		count,
	}
}
