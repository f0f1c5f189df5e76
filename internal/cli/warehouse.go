package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func newWarehouseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warehouse",
		Short: "Manage warehouses and their stock",
	}
	cmd.AddCommand(
		newWarehouseListCmd(a),
		newWarehouseAddCmd(a),
		newUpdateCmd(a, types.KindWarehouse),
		newDeleteCmd(a, types.KindWarehouse),
		newStockCmd(a),
		newStockAddCmd(a),
		newStockRemoveCmd(a),
	)
	return cmd
}

func newWarehouseListCmd(a *app) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List warehouses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := types.ParseWarehouseKey(sortKey)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				ws, err := db.Warehouses(key)
				if err != nil {
					return err
				}
				return a.render(cmd, ws, (&types.Warehouse{}).Header(), rowsOf(ws))
			})
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(types.WarehouseByName),
		"ordering: name, capacity, productCount, quantity, date, id")
	return cmd
}

func newWarehouseAddCmd(a *app) *cobra.Command {
	var (
		name, date string
		capacity   int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an empty warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			return a.insertNew(cmd, types.KindWarehouse, func(_ *store.Database, id types.ID) (types.Record, error) {
				return types.NewWarehouse(name, capacity, d, id), nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "warehouse name")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "total units the warehouse can hold")
	cmd.Flags().StringVar(&date, "date", "", "opening date mm/dd/yyyy (default: today)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

// stockLine is one product held by a warehouse.
type stockLine struct {
	Product  types.ProductRef `json:"product"`
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
}

func newStockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stock <warehouse>",
		Short: "Show the products a warehouse holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseKindID(args[0], types.KindWarehouse)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				r, err := db.Select(id)
				if err != nil {
					return err
				}
				w := r.(*types.Warehouse)

				lines := []stockLine{}
				rows := [][]string{}
				for _, p := range w.Products() {
					line := stockLine{Product: p, Name: types.NullString, Quantity: w.ProductQuantity(p)}
					if pr, err := db.Select(p.ID()); err == nil {
						line.Name = pr.(*types.Product).Name
					}
					lines = append(lines, line)
					rows = append(rows, []string{p.String(), line.Name, strconv.Itoa(line.Quantity)})
				}
				rows = append(rows, []string{"", "Total", strconv.Itoa(w.Quantity()) + "/" + strconv.Itoa(w.Capacity)})
				return a.render(cmd, lines, []string{"Product", "Name", "Quantity"}, rows)
			})
		},
	}
}

// stockResult is the --json payload of stock-add and stock-remove.
type stockResult struct {
	Warehouse types.ID         `json:"warehouse"`
	Product   types.ProductRef `json:"product"`
	Quantity  int              `json:"quantity"`
}

func newStockAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stock-add <warehouse> <product> <count>",
		Short: "Set the quantity of a product held by a warehouse",
		Long: `Stock-add stores count units of the product in the warehouse, replacing
any quantity already held. The new total must fit the warehouse capacity.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stockOp(cmd, args, func(db *store.Database, w types.ID, p types.ProductRef, n int) error {
				return db.AddStock(w, p, n)
			})
		},
	}
}

func newStockRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stock-remove <warehouse> <product> <quantity>",
		Short: "Take units of a product out of a warehouse",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stockOp(cmd, args, func(db *store.Database, w types.ID, p types.ProductRef, n int) error {
				return db.RemoveStock(w, p, n)
			})
		},
	}
}

// stockOp parses <warehouse> <product> <quantity>, applies op, and reports
// the quantity the warehouse now holds.
func (a *app) stockOp(cmd *cobra.Command, args []string, op func(*store.Database, types.ID, types.ProductRef, int) error) error {
	wid, err := parseKindID(args[0], types.KindWarehouse)
	if err != nil {
		return err
	}
	pid, err := parseKindID(args[1], types.KindProduct)
	if err != nil {
		return err
	}
	n, err := parseCount(args[2])
	if err != nil {
		return err
	}
	product := types.ProductRef(pid)
	return a.withStore(cmd, func(db *store.Database) error {
		if err := op(db, wid, product, n); err != nil {
			return err
		}
		r, err := db.Select(wid)
		if err != nil {
			return err
		}
		held := max(r.(*types.Warehouse).ProductQuantity(product), 0)
		return a.message(cmd, stockResult{Warehouse: wid, Product: product, Quantity: held},
			"Warehouse %s holds %d of product %s", wid, held, product)
	})
}
