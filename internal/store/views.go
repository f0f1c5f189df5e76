package store

import (
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// Stats holds per-kind record counts.
type Stats struct {
	Companies  int `json:"companies"`
	Products   int `json:"products"`
	Users      int `json:"users"`
	Warehouses int `json:"warehouses"`

	// StockUnits is the total quantity stored across all warehouses.
	StockUnits int `json:"stock_units"`
}

// Stats returns the current record counts.
func (d *Database) Stats() (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return Stats{}, types.ErrDetached
	}
	s := Stats{
		Companies:  len(d.companies),
		Products:   len(d.products),
		Users:      len(d.users),
		Warehouses: len(d.warehouses),
	}
	for _, w := range d.warehouses {
		s.StockUnits += w.Quantity()
	}
	return s, nil
}

// Authenticate returns a copy of the user whose username and password both
// match, or ErrInvalidCredentials.
func (d *Database) Authenticate(username, password string) (*types.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	for _, u := range d.users {
		if u.Username == username && u.Password == password {
			return u.Clone().(*types.User), nil
		}
	}
	return nil, types.ErrInvalidCredentials
}

func cloneTyped[T types.Record](rs []T) []T {
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.Clone().(T)
	}
	return out
}

// Companies returns copies of all companies sorted by key.
func (d *Database) Companies(key types.CompanyKey) ([]*types.Company, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	out := cloneTyped(d.companies)
	types.SortCompanies(out, key)
	return out, nil
}

// Products returns copies of all products sorted by key. Owning companies
// are resolved against the store for the company ordering.
func (d *Database) Products(key types.ProductKey) ([]*types.Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	out := cloneTyped(d.products)
	types.SortProducts(out, key, d.companyLookupLocked())
	return out, nil
}

// companyLookupLocked indexes the current companies by id.
func (d *Database) companyLookupLocked() types.CompanyLookup {
	byID := make(map[types.CompanyRef]*types.Company, len(d.companies))
	for _, c := range d.companies {
		byID[types.CompanyRef(c.ID)] = c
	}
	return func(ref types.CompanyRef) (*types.Company, bool) {
		c, ok := byID[ref]
		return c, ok
	}
}

// CompanyName resolves a company reference to the company's name. A detached
// store resolves nothing.
func (d *Database) CompanyName(ref types.CompanyRef) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return "", false
	}
	if i := indexOf(d.companies, ref.ID()); i >= 0 {
		return d.companies[i].Name, true
	}
	return "", false
}

// Users returns copies of all users sorted by key.
func (d *Database) Users(key types.UserKey) ([]*types.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	out := cloneTyped(d.users)
	types.SortUsers(out, key)
	return out, nil
}

// Warehouses returns copies of all warehouses sorted by key.
func (d *Database) Warehouses(key types.WarehouseKey) ([]*types.Warehouse, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return nil, types.ErrDetached
	}
	out := cloneTyped(d.warehouses)
	types.SortWarehouses(out, key)
	return out, nil
}
