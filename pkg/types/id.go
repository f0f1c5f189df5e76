package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a record. The bits under TypeMask carry the record kind and
// the low 16 bits carry a suffix that is unique within that kind.
type ID int32

// Kind is the type tag of an identifier.
type Kind int32

// TypeMask extracts the kind from an ID.
const TypeMask = 0xFFF0000

// SuffixMask extracts the per-kind suffix from an ID.
const SuffixMask = 0xFFFF

// Record kinds.
const (
	KindCompany   Kind = 0x1000000
	KindProduct   Kind = 0x2000000
	KindUser      Kind = 0x3000000
	KindWarehouse Kind = 0x4000000
)

// Kinds lists every record kind in load order.
var Kinds = []Kind{KindCompany, KindProduct, KindUser, KindWarehouse}

var kindNames = map[Kind]string{
	KindCompany:   "company",
	KindProduct:   "product",
	KindUser:      "user",
	KindWarehouse: "warehouse",
}

// Valid reports whether k is one of the four record kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%#x)", int32(k))
}

// ParseKind maps a kind name such as "company" back to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// NewID builds an identifier from a kind and a 16-bit suffix.
func NewID(kind Kind, suffix uint16) ID {
	return ID(int32(kind) | int32(suffix))
}

// Kind returns the type tag of the identifier.
func (id ID) Kind() Kind {
	return Kind(int32(id) & TypeMask)
}

// Suffix returns the per-kind part of the identifier.
func (id ID) Suffix() uint16 {
	return uint16(int32(id) & SuffixMask)
}

// String renders the identifier as lowercase hex without a prefix.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 16)
}

// ParseID parses a hex identifier, with or without a 0x prefix.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(v), nil
}

// CompanyRef is a soft reference from a product to its owning company.
type CompanyRef ID

// Valid reports whether the reference carries the company type tag.
func (r CompanyRef) Valid() bool { return ID(r).Kind() == KindCompany }

// ID returns the referenced identifier.
func (r CompanyRef) ID() ID { return ID(r) }

func (r CompanyRef) String() string { return ID(r).String() }

// ProductRef is a soft reference from a warehouse stock entry to a product.
type ProductRef ID

// Valid reports whether the reference carries the product type tag.
func (r ProductRef) Valid() bool { return ID(r).Kind() == KindProduct }

// ID returns the referenced identifier.
func (r ProductRef) ID() ID { return ID(r) }

func (r ProductRef) String() string { return ID(r).String() }
