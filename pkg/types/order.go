package types

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Ordering keys. Each kind sorts by its primary key and breaks ties through
// the remaining fields, ending in a total order.
type (
	CompanyKey   string
	ProductKey   string
	UserKey      string
	WarehouseKey string
)

// Company ordering keys.
const (
	CompanyByName CompanyKey = "name"
	CompanyByDate CompanyKey = "date"
	CompanyByID   CompanyKey = "id"
)

// Product ordering keys.
const (
	ProductByName    ProductKey = "name"
	ProductByCompany ProductKey = "company"
	ProductByWeight  ProductKey = "weight"
	ProductByDate    ProductKey = "date"
	ProductByID      ProductKey = "id"
)

// User ordering keys.
const (
	UserByFirstName UserKey = "firstName"
	UserByLastName  UserKey = "lastName"
	UserByBirthday  UserKey = "birthday"
	UserByID        UserKey = "id"
	UserByUsername  UserKey = "username"
)

// Warehouse ordering keys.
const (
	WarehouseByName         WarehouseKey = "name"
	WarehouseByCapacity     WarehouseKey = "capacity"
	WarehouseByProductCount WarehouseKey = "productCount"
	WarehouseByQuantity     WarehouseKey = "quantity"
	WarehouseByDate         WarehouseKey = "date"
	WarehouseByID           WarehouseKey = "id"
)

func parseKey[K ~string](s string, keys ...K) (K, error) {
	for _, k := range keys {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrdering, s)
}

// ParseCompanyKey parses a company ordering key, ignoring case.
func ParseCompanyKey(s string) (CompanyKey, error) {
	return parseKey(s, CompanyByName, CompanyByDate, CompanyByID)
}

// ParseProductKey parses a product ordering key, ignoring case.
func ParseProductKey(s string) (ProductKey, error) {
	return parseKey(s, ProductByName, ProductByCompany, ProductByWeight, ProductByDate, ProductByID)
}

// ParseUserKey parses a user ordering key, ignoring case.
func ParseUserKey(s string) (UserKey, error) {
	return parseKey(s, UserByFirstName, UserByLastName, UserByBirthday, UserByID, UserByUsername)
}

// ParseWarehouseKey parses a warehouse ordering key, ignoring case.
func ParseWarehouseKey(s string) (WarehouseKey, error) {
	return parseKey(s, WarehouseByName, WarehouseByCapacity, WarehouseByProductCount,
		WarehouseByQuantity, WarehouseByDate, WarehouseByID)
}

// chain returns the first non-zero comparison.
func chain(cs ...func() int) int {
	for _, c := range cs {
		if v := c(); v != 0 {
			return v
		}
	}
	return 0
}

// CompareCompanies compares two companies under key.
func CompareCompanies(a, b *Company, key CompanyKey) int {
	name := func() int { return strings.Compare(a.Name, b.Name) }
	date := func() int { return a.Date.Compare(b.Date) }
	id := func() int { return cmp.Compare(a.ID, b.ID) }
	switch key {
	case CompanyByDate:
		return chain(date, name, id)
	case CompanyByID:
		return chain(id, name, date)
	default:
		return chain(name, date, id)
	}
}

// SortCompanies sorts cs in place under key.
func SortCompanies(cs []*Company, key CompanyKey) {
	slices.SortFunc(cs, func(a, b *Company) int { return CompareCompanies(a, b, key) })
}

// CompanyLookup resolves a company reference. It reports false for a
// reference that names no company.
type CompanyLookup func(CompanyRef) (*Company, bool)

// compareOwners compares the companies behind two references by name
// ordering, then by numeric id. A dangling reference sorts first.
func compareOwners(a, b CompanyRef, lookup CompanyLookup) int {
	if lookup != nil {
		ca, okA := lookup(a)
		cb, okB := lookup(b)
		switch {
		case okA && okB:
			if c := CompareCompanies(ca, cb, CompanyByName); c != 0 {
				return c
			}
		case okA:
			return 1
		case okB:
			return -1
		}
	}
	return cmp.Compare(a, b)
}

// CompareProducts compares two products under key. Ties on the owning
// company are broken through lookup.
func CompareProducts(a, b *Product, key ProductKey, lookup CompanyLookup) int {
	name := func() int { return strings.Compare(a.Name, b.Name) }
	company := func() int { return compareOwners(a.Company, b.Company, lookup) }
	weight := func() int { return a.Weight.Cmp(b.Weight) }
	date := func() int { return a.Date.Compare(b.Date) }
	id := func() int { return cmp.Compare(a.ID, b.ID) }
	switch key {
	case ProductByCompany:
		return chain(company, name, weight, date, id)
	case ProductByWeight:
		return chain(weight, name, company, date, id)
	case ProductByDate:
		return chain(date, name, company, weight, id)
	case ProductByID:
		return chain(id, name, company, weight, date)
	default:
		return chain(name, company, weight, date, id)
	}
}

// SortProducts sorts ps in place under key.
func SortProducts(ps []*Product, key ProductKey, lookup CompanyLookup) {
	slices.SortFunc(ps, func(a, b *Product) int { return CompareProducts(a, b, key, lookup) })
}

// CompareUsers compares two users under key.
func CompareUsers(a, b *User, key UserKey) int {
	first := func() int { return strings.Compare(a.FirstName, b.FirstName) }
	last := func() int { return strings.Compare(a.LastName, b.LastName) }
	birthday := func() int { return a.Birthday.Compare(b.Birthday) }
	id := func() int { return cmp.Compare(a.ID, b.ID) }
	username := func() int { return strings.Compare(a.Username, b.Username) }
	switch key {
	case UserByLastName:
		return chain(last, first, birthday, id, username)
	case UserByBirthday:
		return chain(birthday, first, last, id, username)
	case UserByID:
		return chain(id, first, last, birthday, username)
	case UserByUsername:
		return chain(username, first, last, birthday, id)
	default:
		return chain(first, last, birthday, id, username)
	}
}

// SortUsers sorts us in place under key.
func SortUsers(us []*User, key UserKey) {
	slices.SortFunc(us, func(a, b *User) int { return CompareUsers(a, b, key) })
}

// CompareWarehouses compares two warehouses under key.
func CompareWarehouses(a, b *Warehouse, key WarehouseKey) int {
	name := func() int { return strings.Compare(a.Name, b.Name) }
	capacity := func() int { return cmp.Compare(a.Capacity, b.Capacity) }
	count := func() int { return cmp.Compare(a.ProductCount(), b.ProductCount()) }
	quantity := func() int { return cmp.Compare(a.Quantity(), b.Quantity()) }
	date := func() int { return a.Date.Compare(b.Date) }
	id := func() int { return cmp.Compare(a.ID, b.ID) }
	switch key {
	case WarehouseByCapacity:
		return chain(capacity, name, count, quantity, date, id)
	case WarehouseByProductCount:
		return chain(count, name, capacity, quantity, date, id)
	case WarehouseByQuantity:
		return chain(quantity, name, capacity, count, date, id)
	case WarehouseByDate:
		return chain(date, name, capacity, count, quantity, id)
	case WarehouseByID:
		return chain(id, name, capacity, count, quantity, date)
	default:
		return chain(name, capacity, count, quantity, date, id)
	}
}

// SortWarehouses sorts ws in place under key.
func SortWarehouses(ws []*Warehouse, key WarehouseKey) {
	slices.SortFunc(ws, func(a, b *Warehouse) int { return CompareWarehouses(a, b, key) })
}
