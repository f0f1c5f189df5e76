package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
)

// statusReport is the --json payload of the status command.
type statusReport struct {
	Backend string `json:"backend"`
	DataDir string `json:"data_dir"`
	Journal string `json:"journal,omitempty"`
	store.Stats
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend, data directory, and record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(db *store.Database) error {
				stats, err := db.Stats()
				if err != nil {
					return err
				}
				cfg := db.Config()
				rep := statusReport{
					Backend: cfg.Backend,
					DataDir: cfg.DataDir,
					Journal: db.JournalPath(),
					Stats:   stats,
				}
				rows := [][]string{
					{"Backend", rep.Backend},
					{"Data dir", rep.DataDir},
					{"Companies", strconv.Itoa(stats.Companies)},
					{"Products", strconv.Itoa(stats.Products)},
					{"Users", strconv.Itoa(stats.Users)},
					{"Warehouses", strconv.Itoa(stats.Warehouses)},
					{"Stock units", strconv.Itoa(stats.StockUnits)},
				}
				if rep.Journal != "" {
					rows = append(rows, []string{"Journal", rep.Journal})
				}
				return a.render(cmd, rep, []string{"Property", "Value"}, rows)
			})
		},
	}
}
