package types

import "fmt"

// Company field tags for Record.Update.
const (
	CompanyFieldName = "name"
	CompanyFieldDate = "date"
)

// Company is a business that owns products.
type Company struct {
	Name string `json:"name"`
	Date Date   `json:"date"`
	ID   ID     `json:"id"`
}

// NewCompany builds a company. A blank name becomes NullString and an unset
// date becomes today.
func NewCompany(name string, date Date, id ID) *Company {
	return &Company{
		Name: validString(name),
		Date: orToday(date),
		ID:   id,
	}
}

// RecordID implements Record.
func (c *Company) RecordID() ID { return c.ID }

// Header implements Record.
func (c *Company) Header() []string {
	return []string{"Name", "Date", "ID"}
}

// Row implements Record.
func (c *Company) Row() []string {
	return []string{c.Name, c.Date.String(), c.ID.String()}
}

// Update implements Record.
func (c *Company) Update(field string, value any) error {
	switch field {
	case CompanyFieldName:
		s, ok := value.(string)
		if !ok {
			return mismatch(field, "string", value)
		}
		c.Name = validString(s)
	case CompanyFieldDate:
		d, err := setDate(field, value)
		if err != nil {
			return err
		}
		c.Date = d
	case FieldID:
		id, err := checkOwnKind(KindCompany, value)
		if err != nil {
			return err
		}
		c.ID = id
	default:
		return fmt.Errorf("%w: company has no field %q", ErrUnknownField, field)
	}
	return nil
}

// Clone implements Record.
func (c *Company) Clone() Record {
	cp := *c
	return &cp
}

func (c *Company) String() string {
	return c.Name + ", " + c.ID.String()
}
