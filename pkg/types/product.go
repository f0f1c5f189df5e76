package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product field tags for Record.Update.
const (
	ProductFieldName    = "name"
	ProductFieldCompany = "company"
	ProductFieldWeight  = "weight"
	ProductFieldDate    = "date"
)

// Product is an item made by a company and stocked in warehouses. Company is
// a soft reference; the store checks it only on the delete cascade.
type Product struct {
	Name    string          `json:"name"`
	Company CompanyRef      `json:"company"`
	Weight  decimal.Decimal `json:"weight"`
	Date    Date            `json:"date"`
	ID      ID              `json:"id"`
}

// NewProduct builds a product. Negative weights clamp to zero.
func NewProduct(name string, company CompanyRef, weight decimal.Decimal, date Date, id ID) *Product {
	return &Product{
		Name:    validString(name),
		Company: company,
		Weight:  clampWeight(weight),
		Date:    orToday(date),
		ID:      id,
	}
}

func clampWeight(w decimal.Decimal) decimal.Decimal {
	if w.IsNegative() {
		return decimal.Zero
	}
	return w
}

// RecordID implements Record.
func (p *Product) RecordID() ID { return p.ID }

// Header implements Record.
func (p *Product) Header() []string {
	return []string{"Name", "Company", "Weight", "Date", "ID"}
}

// Row implements Record. The company column holds the referenced id; callers
// that can resolve companies substitute the name.
func (p *Product) Row() []string {
	return []string{p.Name, p.Company.String(), p.Weight.String(), p.Date.String(), p.ID.String()}
}

// Update implements Record.
func (p *Product) Update(field string, value any) error {
	switch field {
	case ProductFieldName:
		s, ok := value.(string)
		if !ok {
			return mismatch(field, "string", value)
		}
		p.Name = validString(s)
	case ProductFieldCompany:
		ref, ok := value.(CompanyRef)
		if !ok {
			return mismatch(field, "CompanyRef", value)
		}
		if !ref.Valid() {
			return fmt.Errorf("%w: %s is not a company id", ErrInvalidKind, ref)
		}
		p.Company = ref
	case ProductFieldWeight:
		w, ok := value.(decimal.Decimal)
		if !ok {
			return mismatch(field, "decimal.Decimal", value)
		}
		p.Weight = clampWeight(w)
	case ProductFieldDate:
		d, err := setDate(field, value)
		if err != nil {
			return err
		}
		p.Date = d
	case FieldID:
		id, err := checkOwnKind(KindProduct, value)
		if err != nil {
			return err
		}
		p.ID = id
	default:
		return fmt.Errorf("%w: product has no field %q", ErrUnknownField, field)
	}
	return nil
}

// Clone implements Record.
func (p *Product) Clone() Record {
	cp := *p
	return &cp
}

// Ref returns a reference to this product.
func (p *Product) Ref() ProductRef { return ProductRef(p.ID) }
