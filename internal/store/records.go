package store

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/logistics/internal/journal"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func indexOf[T types.Record](rs []T, id types.ID) int {
	return slices.IndexFunc(rs, func(r T) bool { return r.RecordID() == id })
}

func cloneAll[T types.Record](rs []T) []types.Record {
	out := make([]types.Record, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

func notFound(id types.ID) error {
	return fmt.Errorf("%w: %s", types.ErrNotFound, id)
}

func invalidKind(kind types.Kind) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidKind, kind)
}

// lookupLocked returns the stored record for id without copying it.
func (d *Database) lookupLocked(id types.ID) (types.Record, error) {
	var i int
	switch id.Kind() {
	case types.KindCompany:
		if i = indexOf(d.companies, id); i >= 0 {
			return d.companies[i], nil
		}
	case types.KindProduct:
		if i = indexOf(d.products, id); i >= 0 {
			return d.products[i], nil
		}
	case types.KindUser:
		if i = indexOf(d.users, id); i >= 0 {
			return d.users[i], nil
		}
	case types.KindWarehouse:
		if i = indexOf(d.warehouses, id); i >= 0 {
			return d.warehouses[i], nil
		}
	default:
		return nil, invalidKind(id.Kind())
	}
	return nil, notFound(id)
}

// Select returns a copy of the record with id. The kind is taken from the
// id's type tag.
func (d *Database) Select(id types.ID) (types.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	r, err := d.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// SelectAll returns copies of every record of kind in storage order.
// Mutating the result does not affect the store.
func (d *Database) SelectAll(kind types.Kind) ([]types.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	switch kind {
	case types.KindCompany:
		return cloneAll(d.companies), nil
	case types.KindProduct:
		return cloneAll(d.products), nil
	case types.KindUser:
		return cloneAll(d.users), nil
	case types.KindWarehouse:
		return cloneAll(d.warehouses), nil
	default:
		return nil, invalidKind(kind)
	}
}

// recordKind returns the kind implied by the concrete type of r and whether
// r is a nil pointer.
func recordKind(r types.Record) (types.Kind, bool) {
	switch v := r.(type) {
	case *types.Company:
		return types.KindCompany, v == nil
	case *types.Product:
		return types.KindProduct, v == nil
	case *types.User:
		return types.KindUser, v == nil
	case *types.Warehouse:
		return types.KindWarehouse, v == nil
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

// Insert adds a copy of r to its kind's collection and persists that kind.
// The id's type tag must match the record's kind and the id must be unused.
// The copy is normalized the way the record constructors normalize, so the
// stored value is what a reload returns.
func (d *Database) Insert(r types.Record) error {
	kind, isNil := recordKind(r)
	if isNil {
		return types.ErrNilRecord
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unsupported record type %T", types.ErrInvalidKind, r)
	}
	id := r.RecordID()
	if id.Kind() != kind {
		return fmt.Errorf("%w: id %s does not carry the %s tag", types.ErrInvalidKind, id, kind)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	if !d.validIDLocked(id) {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, id)
	}

	next := r.Clone()
	if err := types.Normalize(next); err != nil {
		return err
	}
	switch v := next.(type) {
	case *types.Company:
		d.companies = append(d.companies, v)
	case *types.Product:
		if !v.Company.Valid() {
			return fmt.Errorf("%w: product company %s is not a company id", types.ErrInvalidKind, v.Company)
		}
		d.products = append(d.products, v)
	case *types.User:
		d.users = append(d.users, v)
	case *types.Warehouse:
		if err := checkStock(v); err != nil {
			return err
		}
		d.warehouses = append(d.warehouses, v)
	}

	if err := d.persist(kind); err != nil {
		return err
	}
	d.record(journal.Entry{Operation: journal.OpInsert, Kind: kind.String(), RecordID: id})
	return nil
}

func checkStock(w *types.Warehouse) error {
	for p, q := range w.Stock {
		if !p.Valid() {
			return fmt.Errorf("%w: stock entry %s is not a product id", types.ErrInvalidKind, p)
		}
		if q < 0 {
			return fmt.Errorf("%w: %d of %s", types.ErrInvalidQuantity, q, p)
		}
	}
	if total := w.Quantity(); total > w.Capacity {
		return fmt.Errorf("%w: %d stored, capacity %d", types.ErrCapacityExceeded, total, w.Capacity)
	}
	return nil
}

// Delete removes the record with id. Deleting a company also deletes the
// products it owns; deleting a product strips it from every warehouse. Each
// affected kind is persisted once.
func (d *Database) Delete(id types.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	if _, err := d.lookupLocked(id); err != nil {
		return err
	}

	kind := id.Kind()
	dirty := []types.Kind{kind}
	var cascaded []journal.Entry

	switch kind {
	case types.KindCompany:
		d.companies = slices.DeleteFunc(d.companies, func(c *types.Company) bool { return c.ID == id })

		owner := types.CompanyRef(id)
		var owned []types.ProductRef
		d.products = slices.DeleteFunc(d.products, func(p *types.Product) bool {
			if p.Company == owner {
				owned = append(owned, p.Ref())
				return true
			}
			return false
		})
		if len(owned) > 0 {
			dirty = append(dirty, types.KindProduct)
			for _, p := range owned {
				cascaded = append(cascaded, journal.Entry{
					Operation: journal.OpCascade, Kind: types.KindProduct.String(), RecordID: p.ID(), Related: id,
				})
			}
			if d.dropStockLocked(owned...) {
				dirty = append(dirty, types.KindWarehouse)
			}
		}
	case types.KindProduct:
		d.products = slices.DeleteFunc(d.products, func(p *types.Product) bool { return p.ID == id })
		if d.dropStockLocked(types.ProductRef(id)) {
			dirty = append(dirty, types.KindWarehouse)
		}
	case types.KindUser:
		d.users = slices.DeleteFunc(d.users, func(u *types.User) bool { return u.ID == id })
	case types.KindWarehouse:
		d.warehouses = slices.DeleteFunc(d.warehouses, func(w *types.Warehouse) bool { return w.ID == id })
	}

	if err := d.persist(dirty...); err != nil {
		return err
	}
	d.record(journal.Entry{Operation: journal.OpDelete, Kind: kind.String(), RecordID: id})
	for _, e := range cascaded {
		d.record(e)
	}
	return nil
}

// dropStockLocked removes every listed product from every warehouse. It
// reports whether any warehouse changed.
func (d *Database) dropStockLocked(products ...types.ProductRef) bool {
	changed := false
	for _, w := range d.warehouses {
		for _, p := range products {
			if w.Drop(p) {
				changed = true
			}
		}
	}
	return changed
}

// Update sets one field of the record with id. The change is applied to a
// copy first so a rejected value leaves the record untouched. Changing a
// record's id requires an unused id of the same kind and re-points the
// references that name it.
func (d *Database) Update(id types.ID, field string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	current, err := d.lookupLocked(id)
	if err != nil {
		return err
	}

	next := current.Clone()
	if err := next.Update(field, value); err != nil {
		return err
	}
	newID := next.RecordID()
	if newID != id && !d.validIDLocked(newID) {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, newID)
	}

	kind := id.Kind()
	dirty := []types.Kind{kind}
	switch v := next.(type) {
	case *types.Company:
		d.companies[indexOf(d.companies, id)] = v
		if newID != id && d.repointCompanyLocked(types.CompanyRef(id), types.CompanyRef(newID)) {
			dirty = append(dirty, types.KindProduct)
		}
	case *types.Product:
		d.products[indexOf(d.products, id)] = v
		if newID != id && d.repointProductLocked(types.ProductRef(id), types.ProductRef(newID)) {
			dirty = append(dirty, types.KindWarehouse)
		}
	case *types.User:
		d.users[indexOf(d.users, id)] = v
	case *types.Warehouse:
		d.warehouses[indexOf(d.warehouses, id)] = v
	}

	if err := d.persist(dirty...); err != nil {
		return err
	}
	e := journal.Entry{Operation: journal.OpUpdate, Kind: kind.String(), RecordID: id, Field: field}
	if newID != id {
		e.Related = newID
	}
	d.record(e)
	return nil
}

func (d *Database) repointCompanyLocked(from, to types.CompanyRef) bool {
	changed := false
	for _, p := range d.products {
		if p.Company == from {
			p.Company = to
			changed = true
		}
	}
	return changed
}

func (d *Database) repointProductLocked(from, to types.ProductRef) bool {
	changed := false
	for _, w := range d.warehouses {
		if q, ok := w.Stock[from]; ok {
			delete(w.Stock, from)
			w.Stock[to] = q
			changed = true
		}
	}
	return changed
}
