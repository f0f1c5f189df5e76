package store

import (
	"fmt"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// maxSuffix is the largest suffix GenerateID hands out. Suffix zero is left
// to the bootstrap administrator.
const maxSuffix = types.SuffixMask

// randomTries bounds random probing before GenerateID falls back to a scan.
const randomTries = 64

// ValidID reports whether id carries a known type tag and no record of that
// kind holds it.
func (d *Database) ValidID(id types.ID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return false
	}
	return d.validIDLocked(id)
}

func (d *Database) validIDLocked(id types.ID) bool {
	switch id.Kind() {
	case types.KindCompany:
		return indexOf(d.companies, id) < 0
	case types.KindProduct:
		return indexOf(d.products, id) < 0
	case types.KindUser:
		return indexOf(d.users, id) < 0
	case types.KindWarehouse:
		return indexOf(d.warehouses, id) < 0
	default:
		return false
	}
}

// usedSuffixesLocked returns the non-zero suffixes held by records of kind.
func (d *Database) usedSuffixesLocked(kind types.Kind) map[uint16]bool {
	used := make(map[uint16]bool)
	add := func(id types.ID) {
		if s := id.Suffix(); s != 0 {
			used[s] = true
		}
	}
	switch kind {
	case types.KindCompany:
		for _, r := range d.companies {
			add(r.ID)
		}
	case types.KindProduct:
		for _, r := range d.products {
			add(r.ID)
		}
	case types.KindUser:
		for _, r := range d.users {
			add(r.ID)
		}
	case types.KindWarehouse:
		for _, r := range d.warehouses {
			add(r.ID)
		}
	}
	return used
}

// GenerateID returns an unused id of kind with a random suffix in
// [1, 0xFFFF]. It fails with ErrIDSpaceExhausted when every suffix is taken.
func (d *Database) GenerateID(kind types.Kind) (types.ID, error) {
	if !kind.Valid() {
		return 0, invalidKind(kind)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.attached {
		return 0, types.ErrDetached
	}
	used := d.usedSuffixesLocked(kind)
	if len(used) >= maxSuffix {
		return 0, fmt.Errorf("%w: %s", types.ErrIDSpaceExhausted, kind)
	}

	for range randomTries {
		s := uint16(d.intn(maxSuffix) + 1)
		if !used[s] {
			return types.NewID(kind, s), nil
		}
	}
	for s := 1; s <= maxSuffix; s++ {
		if !used[uint16(s)] {
			return types.NewID(kind, uint16(s)), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", types.ErrIDSpaceExhausted, kind)
}
