package types

import (
	"fmt"
	"strings"
)

// NullString replaces blank string fields.
const NullString = "null"

// Record is the capability set shared by all four record kinds.
type Record interface {
	// RecordID returns the record's identifier.
	RecordID() ID

	// Header returns the column titles matching Row.
	Header() []string

	// Row returns the record's display projection.
	Row() []string

	// Update sets one field by tag. It returns ErrUnknownField if the tag
	// is not a field of the kind and ErrTypeMismatch if value does not have
	// the field's type. The record is unchanged on error.
	Update(field string, value any) error

	// Clone returns a deep copy of the record.
	Clone() Record
}

// Field tag shared by every kind.
const FieldID = "id"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// validString folds line breaks to spaces and trims s. A blank result is
// NullString. The result is a single line that reads back unchanged.
func validString(s string) string {
	s = strings.TrimSpace(lineBreaks.Replace(s))
	if s == "" {
		return NullString
	}
	return s
}

// Normalize applies the constructor rules to r in place, for records built
// as struct literals. Strings are folded by the blank and line-break rules,
// negative weights and capacities clamp to zero, and an unset date becomes
// Today. A date that is set but not real returns an error wrapping
// ErrInvalidDate.
func Normalize(r Record) error {
	switch v := r.(type) {
	case *Company:
		v.Name = validString(v.Name)
		return normalizeDate(&v.Date)
	case *Product:
		v.Name = validString(v.Name)
		v.Weight = clampWeight(v.Weight)
		return normalizeDate(&v.Date)
	case *User:
		v.FirstName = validString(v.FirstName)
		v.LastName = validString(v.LastName)
		v.Username = validString(v.Username)
		v.Password = validString(v.Password)
		return normalizeDate(&v.Birthday)
	case *Warehouse:
		v.Name = validString(v.Name)
		v.Capacity = max(v.Capacity, 0)
		if v.Stock == nil {
			v.Stock = make(map[ProductRef]int)
		}
		return normalizeDate(&v.Date)
	default:
		return fmt.Errorf("%w: unsupported record type %T", ErrInvalidKind, r)
	}
}

func normalizeDate(d *Date) error {
	if d.IsZero() {
		*d = Today()
		return nil
	}
	return d.Check()
}

// mismatch builds the error returned when an update value has the wrong type.
func mismatch(field string, want string, got any) error {
	return fmt.Errorf("%w: field %q wants %s, got %T", ErrTypeMismatch, field, want, got)
}

// checkOwnKind validates an id update against the record's kind.
func checkOwnKind(kind Kind, value any) (ID, error) {
	id, ok := value.(ID)
	if !ok {
		return 0, mismatch(FieldID, "ID", value)
	}
	if id.Kind() != kind {
		return 0, fmt.Errorf("%w: id %s is not a %s id", ErrInvalidKind, id, kind)
	}
	return id, nil
}
