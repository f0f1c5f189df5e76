package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"02/29/2024", true},
		{"02/29/2023", false},
		{"13/01/2020", false},
		{"1/1/2020", false},
		{"00/10/2020", false},
		{"04/31/2021", false},
		{"12/31/1999", true},
		{" 01/15/2020 ", true},
		{"02/29/1900", false},
		{"02/29/2000", true},
		{"01/01/1581", false},
		{"", false},
		{"2020-01-15", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDate(tt.in))
		})
	}
}

func TestNewDate(t *testing.T) {
	d, err := NewDate(2, 29, 2024)
	require.NoError(t, err)
	assert.Equal(t, Date{Month: 2, Day: 29, Year: 2024}, d)

	for _, y := range []int{GregorianStart, MaxYear} {
		d, err := NewDate(1, 1, y)
		require.NoError(t, err)
		parsed, err := ParseDate(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	for _, c := range [][3]int{{2, 29, 2023}, {0, 1, 2020}, {13, 1, 2020}, {6, 31, 2020}, {1, 0, 2020}, {1, 1, 1000}, {1, 1, 10000}} {
		_, err := NewDate(c[0], c[1], c[2])
		assert.ErrorIs(t, err, ErrInvalidDate, "%v", c)
	}
}

func TestDateCheck(t *testing.T) {
	assert.NoError(t, Date{Month: 2, Day: 29, Year: 2024}.Check())
	assert.ErrorIs(t, Date{}.Check(), ErrInvalidDate)
	assert.ErrorIs(t, Date{Month: 1, Day: 1, Year: 12345}.Check(), ErrInvalidDate)
}

func TestDateFallbacks(t *testing.T) {
	today := Today()
	assert.Equal(t, today, NewDateOrToday(2, 30, 2020))
	assert.Equal(t, today, ParseDateOrToday("not a date"))
	assert.Equal(t, Date{Month: 3, Day: 1, Year: 2021}, ParseDateOrToday("03/01/2021"))
}

func TestParseDateErrors(t *testing.T) {
	_, err := ParseDate("1/1/2020")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("02/30/2020")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateCompare(t *testing.T) {
	a := Date{Month: 12, Day: 31, Year: 2019}
	b := Date{Month: 1, Day: 1, Year: 2020}
	c := Date{Month: 1, Day: 2, Year: 2020}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, 0, b.Compare(Date{Month: 1, Day: 1, Year: 2020}))
	assert.True(t, a.Before(b))
	assert.False(t, c.Before(b))
	assert.True(t, b.Equal(Date{Month: 1, Day: 1, Year: 2020}))
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "03/07/2021", Date{Month: 3, Day: 7, Year: 2021}.String())
	parsed, err := ParseDate(Date{Month: 3, Day: 7, Year: 2021}.String())
	require.NoError(t, err)
	assert.Equal(t, Date{Month: 3, Day: 7, Year: 2021}, parsed)
}

func TestDateJSON(t *testing.T) {
	c := NewCompany("Acme", Date{Month: 1, Day: 15, Year: 2020}, 0x1000001)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme","date":"01/15/2020","id":16777217}`, string(data))

	var back Company
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *c, back)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"1/15/2020"}`), &back))
}

func TestZeroDateMeansToday(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	c := NewCompany("Acme", Date{}, 0x1000001)
	assert.Equal(t, Today(), c.Date)
}
