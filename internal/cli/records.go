package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// idResult is the --json payload of commands that touch one record.
type idResult struct {
	Kind string   `json:"kind"`
	ID   types.ID `json:"id"`
}

// insertNew allocates an id of kind, builds the record, and inserts it.
func (a *app) insertNew(cmd *cobra.Command, kind types.Kind, build func(*store.Database, types.ID) (types.Record, error)) error {
	return a.withStore(cmd, func(db *store.Database) error {
		id, err := db.GenerateID(kind)
		if err != nil {
			return err
		}
		r, err := build(db, id)
		if err != nil {
			return err
		}
		if err := db.Insert(r); err != nil {
			return err
		}
		return a.message(cmd, idResult{Kind: kind.String(), ID: id}, "Created %s %s", kind, id)
	})
}

func newUpdateCmd(a *app, kind types.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <field> <value>",
		Short: fmt.Sprintf("Set one field of a %s", kind),
		Long: fmt.Sprintf("Update sets one field of a %s. Changing the id re-points every\n"+
			"reference to the record.", kind),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseKindID(args[0], kind)
			if err != nil {
				return err
			}
			field := args[1]
			value, err := parseFieldValue(kind, field, args[2])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				if err := db.Update(id, field, value); err != nil {
					return err
				}
				return a.message(cmd, idResult{Kind: kind.String(), ID: id}, "Updated %s %s %s", kind, id, field)
			})
		},
	}
}

func newDeleteCmd(a *app, kind types.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s and everything that depends on it", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseKindID(args[0], kind)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				if err := db.Delete(id); err != nil {
					return err
				}
				return a.message(cmd, idResult{Kind: kind.String(), ID: id}, "Deleted %s %s", kind, id)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show any record by id",
		Long: `Get selects one record by its hex id. The id's type tag picks the kind.

Example:
  logistics get 1000001
  logistics get 0x3000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				r, err := db.Select(id)
				if err != nil {
					return err
				}
				return a.render(cmd, r, r.Header(), [][]string{r.Row()})
			})
		},
	}
}
