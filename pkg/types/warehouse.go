package types

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Warehouse field tags for Record.Update.
const (
	WarehouseFieldName     = "name"
	WarehouseFieldCapacity = "capacity"
	WarehouseFieldDate     = "date"
)

// Warehouse stores quantities of products up to a fixed capacity. The sum of
// stored quantities never exceeds Capacity.
type Warehouse struct {
	Name     string             `json:"name"`
	Capacity int                `json:"capacity"`
	Stock    map[ProductRef]int `json:"stock"`
	Date     Date               `json:"date"`
	ID       ID                 `json:"id"`
}

// NewWarehouse builds an empty warehouse. Negative capacities clamp to zero.
func NewWarehouse(name string, capacity int, date Date, id ID) *Warehouse {
	return &Warehouse{
		Name:     validString(name),
		Capacity: max(capacity, 0),
		Stock:    make(map[ProductRef]int),
		Date:     orToday(date),
		ID:       id,
	}
}

// Products returns the stocked product references in ascending id order.
func (w *Warehouse) Products() []ProductRef {
	return slices.Sorted(maps.Keys(w.Stock))
}

// ProductQuantity returns the stored quantity of product, or -1 if the
// product is not stocked.
func (w *Warehouse) ProductQuantity(product ProductRef) int {
	q, ok := w.Stock[product]
	if !ok {
		return -1
	}
	return q
}

// Quantity returns the total stored quantity.
func (w *Warehouse) Quantity() int {
	total := 0
	for _, q := range w.Stock {
		total += q
	}
	return total
}

// ProductCount returns the number of distinct stocked products.
func (w *Warehouse) ProductCount() int {
	return len(w.Stock)
}

// Add stores count units of product, replacing any quantity already stored
// for it. Returns ErrCapacityExceeded if the warehouse is full or if the
// current total plus count would exceed capacity.
func (w *Warehouse) Add(product ProductRef, count int) error {
	if count < 0 {
		return ErrInvalidQuantity
	}
	if w.Full() {
		return fmt.Errorf("%w: warehouse %s is full", ErrCapacityExceeded, w.ID)
	}
	if w.Quantity()+count > w.Capacity {
		return fmt.Errorf("%w: %d + %d > %d", ErrCapacityExceeded, w.Quantity(), count, w.Capacity)
	}
	if w.Stock == nil {
		w.Stock = make(map[ProductRef]int)
	}
	w.Stock[product] = count
	return nil
}

// Remove takes quantity units of product out of the warehouse. Removing the
// full stored quantity drops the product entry.
func (w *Warehouse) Remove(product ProductRef, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	stored, ok := w.Stock[product]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductAbsent, product)
	}
	if quantity > stored {
		return fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, stored, quantity)
	}
	if quantity == stored {
		delete(w.Stock, product)
		return nil
	}
	w.Stock[product] = stored - quantity
	return nil
}

// Drop removes every unit of product regardless of quantity. It reports
// whether the product was stocked.
func (w *Warehouse) Drop(product ProductRef) bool {
	if _, ok := w.Stock[product]; !ok {
		return false
	}
	delete(w.Stock, product)
	return true
}

// Contains reports whether product is stocked.
func (w *Warehouse) Contains(product ProductRef) bool {
	_, ok := w.Stock[product]
	return ok
}

// Full reports whether the total quantity equals capacity. A warehouse with
// zero capacity is always full.
func (w *Warehouse) Full() bool {
	return w.Quantity() == w.Capacity
}

// Empty reports whether no product is stocked.
func (w *Warehouse) Empty() bool {
	return len(w.Stock) == 0
}

// RecordID implements Record.
func (w *Warehouse) RecordID() ID { return w.ID }

// Header implements Record.
func (w *Warehouse) Header() []string {
	return []string{"Name", "Product Count", "Capacity", "Quantity", "Date", "ID"}
}

// Row implements Record.
func (w *Warehouse) Row() []string {
	return []string{
		w.Name,
		strconv.Itoa(w.ProductCount()),
		strconv.Itoa(w.Capacity),
		strconv.Itoa(w.Quantity()),
		w.Date.String(),
		w.ID.String(),
	}
}

// Update implements Record. Lowering capacity below the stored total fails
// with ErrCapacityExceeded.
func (w *Warehouse) Update(field string, value any) error {
	switch field {
	case WarehouseFieldName:
		s, ok := value.(string)
		if !ok {
			return mismatch(field, "string", value)
		}
		w.Name = validString(s)
	case WarehouseFieldCapacity:
		c, ok := value.(int)
		if !ok {
			return mismatch(field, "int", value)
		}
		c = max(c, 0)
		if total := w.Quantity(); c < total {
			return fmt.Errorf("%w: capacity %d below stored %d", ErrCapacityExceeded, c, total)
		}
		w.Capacity = c
	case WarehouseFieldDate:
		d, err := setDate(field, value)
		if err != nil {
			return err
		}
		w.Date = d
	case FieldID:
		id, err := checkOwnKind(KindWarehouse, value)
		if err != nil {
			return err
		}
		w.ID = id
	default:
		return fmt.Errorf("%w: warehouse has no field %q", ErrUnknownField, field)
	}
	return nil
}

// Clone implements Record.
func (w *Warehouse) Clone() Record {
	cp := *w
	cp.Stock = maps.Clone(w.Stock)
	if cp.Stock == nil {
		cp.Stock = make(map[ProductRef]int)
	}
	return &cp
}
