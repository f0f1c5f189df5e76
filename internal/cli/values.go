package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// parseKindID parses a hex id and checks that it carries kind's tag.
func parseKindID(s string, kind types.Kind) (types.ID, error) {
	id, err := types.ParseID(s)
	if err != nil {
		return 0, err
	}
	if id.Kind() != kind {
		return 0, fmt.Errorf("%w: %s is not a %s id", types.ErrInvalidKind, id, kind)
	}
	return id, nil
}

// parseOptionalDate parses mm/dd/yyyy. An empty string yields the zero Date,
// which record constructors treat as today.
func parseOptionalDate(s string) (types.Date, error) {
	if s == "" {
		return types.Date{}, nil
	}
	return types.ParseDate(s)
}

// kindFields lists the update tags each record kind accepts.
var kindFields = map[types.Kind][]string{
	types.KindCompany:   {types.FieldID, types.CompanyFieldName, types.CompanyFieldDate},
	types.KindProduct:   {types.FieldID, types.ProductFieldName, types.ProductFieldCompany, types.ProductFieldWeight, types.ProductFieldDate},
	types.KindUser:      {types.FieldID, types.UserFieldFirstName, types.UserFieldLastName, types.UserFieldBirthday, types.UserFieldAdministrator, types.UserFieldUsername, types.UserFieldPassword},
	types.KindWarehouse: {types.FieldID, types.WarehouseFieldName, types.WarehouseFieldCapacity, types.WarehouseFieldDate},
}

// parseFieldValue converts a command-line value to the Go type Record.Update
// expects for field of kind. A tag kind does not have fails with
// ErrUnknownField before the value is parsed. Fields not listed in the switch
// take strings.
func parseFieldValue(kind types.Kind, field, raw string) (any, error) {
	if !slices.Contains(kindFields[kind], field) {
		return nil, fmt.Errorf("%w: %s has no field %q", types.ErrUnknownField, kind, field)
	}
	switch field {
	case types.FieldID:
		id, err := types.ParseID(raw)
		if err != nil {
			return nil, err
		}
		return id, nil
	case types.CompanyFieldDate, types.UserFieldBirthday:
		return types.ParseDate(raw)
	case types.ProductFieldCompany:
		id, err := parseKindID(raw, types.KindCompany)
		if err != nil {
			return nil, err
		}
		return types.CompanyRef(id), nil
	case types.ProductFieldWeight:
		w, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse weight %q: %w", raw, err)
		}
		return w, nil
	case types.WarehouseFieldCapacity:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse capacity %q: %w", raw, err)
		}
		return n, nil
	case types.UserFieldAdministrator:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse administrator %q: %w", raw, err)
		}
		return b, nil
	default:
		return raw, nil
	}
}

// parseCount parses a non-negative stock quantity.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidQuantity, n)
	}
	return n, nil
}
