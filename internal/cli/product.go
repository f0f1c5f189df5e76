package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(
		newProductListCmd(a),
		newProductAddCmd(a),
		newUpdateCmd(a, types.KindProduct),
		newDeleteCmd(a, types.KindProduct),
	)
	return cmd
}

func newProductListCmd(a *app) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := types.ParseProductKey(sortKey)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				ps, err := db.Products(key)
				if err != nil {
					return err
				}
				return a.render(cmd, ps, (&types.Product{}).Header(), productRows(db, ps))
			})
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(types.ProductByName), "ordering: name, company, weight, date, id")
	return cmd
}

// productRows shows the owning company's name where it resolves.
func productRows(db *store.Database, ps []*types.Product) [][]string {
	rows := rowsOf(ps)
	for i, p := range ps {
		if name, ok := db.CompanyName(p.Company); ok {
			rows[i][1] = name
		}
	}
	return rows
}

func newProductAddCmd(a *app) *cobra.Command {
	var name, company, weight, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product made by an existing company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := parseKindID(company, types.KindCompany)
			if err != nil {
				return err
			}
			w, err := decimal.NewFromString(weight)
			if err != nil {
				return fmt.Errorf("parse weight %q: %w", weight, err)
			}
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			return a.insertNew(cmd, types.KindProduct, func(db *store.Database, id types.ID) (types.Record, error) {
				if _, err := db.Select(owner); err != nil {
					return nil, fmt.Errorf("company: %w", err)
				}
				return types.NewProduct(name, types.CompanyRef(owner), w, d, id), nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&company, "company", "", "owning company id")
	cmd.Flags().StringVar(&weight, "weight", "0", "unit weight")
	cmd.Flags().StringVar(&date, "date", "", "introduction date mm/dd/yyyy (default: today)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
