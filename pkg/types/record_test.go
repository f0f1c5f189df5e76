package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan15 = Date{Month: 1, Day: 15, Year: 2020}

func TestBlankStringsBecomeNull(t *testing.T) {
	c := NewCompany("  ", jan15, 0x1000001)
	assert.Equal(t, NullString, c.Name)

	p := NewProduct("", 0x1000001, decimal.Zero, jan15, 0x2000001)
	assert.Equal(t, NullString, p.Name)

	u := NewUser("", "\t", jan15, 0x3000001, false, "", "")
	assert.Equal(t, []string{NullString, NullString, NullString, NullString},
		[]string{u.FirstName, u.LastName, u.Username, u.Password})

	w := NewWarehouse("", 5, jan15, 0x4000001)
	assert.Equal(t, NullString, w.Name)
}

func TestStringsAreSingleTrimmedLines(t *testing.T) {
	u := NewUser("  Ada ", "Love\r\nlace", jan15, 0x3000001, false, "a\rda", "\n\n")
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Love lace", u.LastName)
	assert.Equal(t, "a da", u.Username)
	assert.Equal(t, NullString, u.Password)

	c := NewCompany("Acme", jan15, 0x1000001)
	require.NoError(t, c.Update(CompanyFieldName, " Acme\nCorp \n"))
	assert.Equal(t, "Acme Corp", c.Name)
}

func TestUpdateRejectsInvalidDate(t *testing.T) {
	records := map[string]Record{
		CompanyFieldDate:  NewCompany("Acme", jan15, 0x1000001),
		UserFieldBirthday: NewUser("Ada", "Lovelace", jan15, 0x3000001, false, "ada", "pw"),
	}
	for field, r := range records {
		before := r.Clone()
		err := r.Update(field, Date{Month: 1, Day: 1, Year: 10000})
		assert.ErrorIs(t, err, ErrInvalidDate, field)
		assert.Equal(t, before, r, field)
	}

	w := NewWarehouse("North", 5, jan15, 0x4000001)
	require.NoError(t, w.Update(WarehouseFieldDate, Date{}))
	assert.Equal(t, Today(), w.Date)
}

func TestNormalize(t *testing.T) {
	p := &Product{Name: " Anvil\n", Company: 0x1000001, Weight: decimal.NewFromInt(-1), ID: 0x2000001}
	require.NoError(t, Normalize(p))
	assert.Equal(t, "Anvil", p.Name)
	assert.True(t, p.Weight.IsZero())
	assert.Equal(t, Today(), p.Date)

	w := &Warehouse{Name: "", Capacity: -4, Date: jan15, ID: 0x4000001, Stock: map[ProductRef]int{}}
	require.NoError(t, Normalize(w))
	assert.Equal(t, NullString, w.Name)
	assert.Equal(t, 0, w.Capacity)

	c := &Company{Name: "Acme", Date: Date{Month: 2, Day: 30, Year: 2020}, ID: 0x1000001}
	assert.ErrorIs(t, Normalize(c), ErrInvalidDate)
}

func TestConstructorsClamp(t *testing.T) {
	p := NewProduct("Anvil", 0x1000001, decimal.NewFromInt(-3), jan15, 0x2000001)
	assert.True(t, p.Weight.IsZero())

	w := NewWarehouse("North", -10, jan15, 0x4000001)
	assert.Equal(t, 0, w.Capacity)
	assert.True(t, w.Full())
}

func TestRecordUpdate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		field   string
		value   any
		wantErr error
	}{
		{name: "company name", record: NewCompany("Acme", jan15, 0x1000001), field: CompanyFieldName, value: "Globex"},
		{name: "company date", record: NewCompany("Acme", jan15, 0x1000001), field: CompanyFieldDate, value: Date{Month: 2, Day: 1, Year: 2021}},
		{name: "company id", record: NewCompany("Acme", jan15, 0x1000001), field: FieldID, value: ID(0x1000002)},
		{name: "company id wrong kind", record: NewCompany("Acme", jan15, 0x1000001), field: FieldID, value: ID(0x2000002), wantErr: ErrInvalidKind},
		{name: "company id as int", record: NewCompany("Acme", jan15, 0x1000001), field: FieldID, value: 0x1000002, wantErr: ErrTypeMismatch},
		{name: "company unknown", record: NewCompany("Acme", jan15, 0x1000001), field: "weight", value: 1, wantErr: ErrUnknownField},

		{name: "product company", record: NewProduct("Anvil", 0x1000001, decimal.Zero, jan15, 0x2000001), field: ProductFieldCompany, value: CompanyRef(0x1000002)},
		{name: "product company wrong kind", record: NewProduct("Anvil", 0x1000001, decimal.Zero, jan15, 0x2000001), field: ProductFieldCompany, value: CompanyRef(0x3000002), wantErr: ErrInvalidKind},
		{name: "product company raw id", record: NewProduct("Anvil", 0x1000001, decimal.Zero, jan15, 0x2000001), field: ProductFieldCompany, value: ID(0x1000002), wantErr: ErrTypeMismatch},
		{name: "product weight float", record: NewProduct("Anvil", 0x1000001, decimal.Zero, jan15, 0x2000001), field: ProductFieldWeight, value: 1.5, wantErr: ErrTypeMismatch},
		{name: "product weight", record: NewProduct("Anvil", 0x1000001, decimal.Zero, jan15, 0x2000001), field: ProductFieldWeight, value: decimal.NewFromFloat(1.5)},

		{name: "user password", record: NewUser("Ada", "L", jan15, 0x3000001, false, "ada", "pw"), field: UserFieldPassword, value: "secret"},
		{name: "user admin string", record: NewUser("Ada", "L", jan15, 0x3000001, false, "ada", "pw"), field: UserFieldAdministrator, value: "true", wantErr: ErrTypeMismatch},
		{name: "user unknown", record: NewUser("Ada", "L", jan15, 0x3000001, false, "ada", "pw"), field: "email", value: "a@b", wantErr: ErrUnknownField},

		{name: "warehouse capacity", record: NewWarehouse("North", 5, jan15, 0x4000001), field: WarehouseFieldCapacity, value: 50},
		{name: "warehouse capacity string", record: NewWarehouse("North", 5, jan15, 0x4000001), field: WarehouseFieldCapacity, value: "50", wantErr: ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.record.Clone()
			err := tt.record.Update(tt.field, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, tt.record, "record unchanged on error")
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, before, tt.record)
		})
	}
}

func TestRows(t *testing.T) {
	c := NewCompany("Acme", jan15, 0x1000001)
	assert.Equal(t, []string{"Acme", "01/15/2020", "1000001"}, c.Row())
	assert.Len(t, c.Header(), len(c.Row()))
	assert.Equal(t, "Acme, 1000001", c.String())

	p := NewProduct("Anvil", 0x1000001, decimal.RequireFromString("2.50"), jan15, 0x2000001)
	assert.Equal(t, []string{"Anvil", "1000001", "2.5", "01/15/2020", "2000001"}, p.Row())
	assert.Len(t, p.Header(), len(p.Row()))

	u := NewUser("Ada", "Lovelace", jan15, 0x3000001, true, "ada", "pw")
	assert.NotContains(t, u.Row(), "pw")
	assert.Len(t, u.Header(), len(u.Row()))

	w := NewWarehouse("North", 10, jan15, 0x4000001)
	require.NoError(t, w.Add(0x2000001, 4))
	assert.Equal(t, []string{"North", "1", "10", "4", "01/15/2020", "4000001"}, w.Row())
	assert.Len(t, w.Header(), len(w.Row()))
}

func TestNewDefaultAdministrator(t *testing.T) {
	u := NewDefaultAdministrator()
	assert.Equal(t, ID(KindUser), u.ID)
	assert.True(t, u.Administrator)
	assert.Equal(t, "Administrator", u.FirstName)
	assert.Equal(t, "Administrator", u.LastName)
	assert.Equal(t, DefaultAdministrator, u.Username)
	assert.Equal(t, DefaultAdministrator, u.Password)
}
