package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func newCompanyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(
		newCompanyListCmd(a),
		newCompanyAddCmd(a),
		newUpdateCmd(a, types.KindCompany),
		newDeleteCmd(a, types.KindCompany),
	)
	return cmd
}

func newCompanyListCmd(a *app) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := types.ParseCompanyKey(sortKey)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				cs, err := db.Companies(key)
				if err != nil {
					return err
				}
				return a.render(cmd, cs, (&types.Company{}).Header(), rowsOf(cs))
			})
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(types.CompanyByName), "ordering: name, date, id")
	return cmd
}

func newCompanyAddCmd(a *app) *cobra.Command {
	var name, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			return a.insertNew(cmd, types.KindCompany, func(_ *store.Database, id types.ID) (types.Record, error) {
				return types.NewCompany(name, d, id), nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "company name")
	cmd.Flags().StringVar(&date, "date", "", "founding date mm/dd/yyyy (default: today)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
