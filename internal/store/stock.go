package store

import (
	"fmt"

	"github.com/mesh-intelligence/logistics/internal/journal"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// warehouseLocked returns the stored warehouse with id.
func (d *Database) warehouseLocked(id types.ID) (*types.Warehouse, error) {
	if id.Kind() != types.KindWarehouse {
		return nil, fmt.Errorf("%w: %s is not a warehouse id", types.ErrInvalidKind, id)
	}
	i := indexOf(d.warehouses, id)
	if i < 0 {
		return nil, notFound(id)
	}
	return d.warehouses[i], nil
}

// AddStock stores count units of product in the warehouse, replacing any
// quantity already stored for that product. The product must exist.
func (d *Database) AddStock(warehouse types.ID, product types.ProductRef, count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	w, err := d.warehouseLocked(warehouse)
	if err != nil {
		return err
	}
	if !product.Valid() {
		return fmt.Errorf("%w: %s is not a product id", types.ErrInvalidKind, product)
	}
	if indexOf(d.products, product.ID()) < 0 {
		return notFound(product.ID())
	}
	if err := w.Add(product, count); err != nil {
		return err
	}

	if err := d.persist(types.KindWarehouse); err != nil {
		return err
	}
	d.record(journal.Entry{
		Operation: journal.OpStockAdd,
		Kind:      types.KindWarehouse.String(),
		RecordID:  warehouse,
		Related:   product.ID(),
		Count:     count,
	})
	return nil
}

// RemoveStock takes quantity units of product out of the warehouse.
// Removing the whole stored quantity drops the product from the warehouse.
func (d *Database) RemoveStock(warehouse types.ID, product types.ProductRef, quantity int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	w, err := d.warehouseLocked(warehouse)
	if err != nil {
		return err
	}
	if err := w.Remove(product, quantity); err != nil {
		return err
	}

	if err := d.persist(types.KindWarehouse); err != nil {
		return err
	}
	d.record(journal.Entry{
		Operation: journal.OpStockRemove,
		Kind:      types.KindWarehouse.String(),
		RecordID:  warehouse,
		Related:   product.ID(),
		Count:     quantity,
	})
	return nil
}
