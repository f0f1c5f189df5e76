package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/logistics/internal/journal"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func TestInsertSelect(t *testing.T) {
	db, _ := attached(t)
	c := types.NewCompany("Acme", day(t, 1, 15, 2020), 0x1000001)
	require.NoError(t, db.Insert(c))

	r, err := db.Select(0x1000001)
	require.NoError(t, err)
	assert.Equal(t, c, r)

	r.(*types.Company).Name = "Mutated"
	again, err := db.Select(0x1000001)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.(*types.Company).Name, "select returns a copy")

	c.Name = "Also mutated"
	again, err = db.Select(0x1000001)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.(*types.Company).Name, "insert stores a copy")
}

func TestInsertErrors(t *testing.T) {
	db, _ := attached(t)
	require.NoError(t, db.Insert(types.NewCompany("Acme", types.Date{}, 0x1000001)))

	var nilCompany *types.Company
	over := types.NewWarehouse("Tiny", 1, types.Date{}, 0x4000009)
	over.Stock[0x2000001] = 2

	tests := []struct {
		name    string
		record  types.Record
		wantErr error
	}{
		{name: "nil interface", record: nil, wantErr: types.ErrNilRecord},
		{name: "nil pointer", record: nilCompany, wantErr: types.ErrNilRecord},
		{name: "duplicate id", record: types.NewCompany("Dup", types.Date{}, 0x1000001), wantErr: types.ErrDuplicateID},
		{name: "id of another kind", record: types.NewCompany("Wrong", types.Date{}, 0x2000001), wantErr: types.ErrInvalidKind},
		{
			name:    "product owned by non-company",
			record:  types.NewProduct("Anvil", 0x4000001, decimal.Zero, types.Date{}, 0x2000001),
			wantErr: types.ErrInvalidKind,
		},
		{name: "warehouse over capacity", record: over, wantErr: types.ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, db.Insert(tt.record), tt.wantErr)
		})
	}

	companies, err := db.SelectAll(types.KindCompany)
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestSelectErrors(t *testing.T) {
	db, _ := attached(t)

	_, err := db.Select(0x1000042)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = db.Select(0x5000001)
	assert.ErrorIs(t, err, types.ErrInvalidKind)
	_, err = db.SelectAll(types.Kind(0x7000000))
	assert.ErrorIs(t, err, types.ErrInvalidKind)
}

func TestSelectAllIsSnapshot(t *testing.T) {
	db, _ := attached(t)
	w := types.NewWarehouse("North", 10, types.Date{}, 0x4000001)
	require.NoError(t, db.Insert(w))

	all, err := db.SelectAll(types.KindWarehouse)
	require.NoError(t, err)
	all[0].(*types.Warehouse).Stock[0x2000001] = 5

	r, err := db.Select(0x4000001)
	require.NoError(t, err)
	assert.True(t, r.(*types.Warehouse).Empty())
}

func TestGenerateID(t *testing.T) {
	db, _ := attached(t)
	for _, kind := range types.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			id, err := db.GenerateID(kind)
			require.NoError(t, err)
			assert.Equal(t, int32(kind), int32(id)&types.TypeMask&int32(kind))
			assert.Equal(t, kind, id.Kind())
			assert.NotZero(t, id.Suffix())
			assert.True(t, db.ValidID(id))
		})
	}

	_, err := db.GenerateID(types.Kind(0x123))
	assert.ErrorIs(t, err, types.ErrInvalidKind)
}

func TestGenerateIDSkipsUsedSuffixes(t *testing.T) {
	db, _ := attached(t, WithRand(func(int) int { return 0 }))

	first, err := db.GenerateID(types.KindCompany)
	require.NoError(t, err)
	assert.Equal(t, types.ID(0x1000001), first)
	require.NoError(t, db.Insert(types.NewCompany("Acme", types.Date{}, first)))

	second, err := db.GenerateID(types.KindCompany)
	require.NoError(t, err)
	assert.Equal(t, types.ID(0x1000002), second)
}

func TestGenerateIDExhausted(t *testing.T) {
	db, _ := attachedMem(t)
	for s := 1; s <= maxSuffix; s++ {
		db.products = append(db.products, &types.Product{ID: types.NewID(types.KindProduct, uint16(s))})
	}

	_, err := db.GenerateID(types.KindProduct)
	assert.ErrorIs(t, err, types.ErrIDSpaceExhausted)

	_, err = db.GenerateID(types.KindCompany)
	assert.NoError(t, err)
}

func TestValidID(t *testing.T) {
	db, _ := attached(t)
	require.NoError(t, db.Insert(types.NewCompany("Acme", types.Date{}, 0x1000001)))

	assert.False(t, db.ValidID(0x1000001))
	assert.True(t, db.ValidID(0x1000002))
	assert.False(t, db.ValidID(types.ID(types.KindUser)), "bootstrap administrator holds the bare user tag")
	assert.False(t, db.ValidID(0x9000001), "unknown type tag")
}

// seedCascade builds company 0x1000001 owning products 0x2000001 and
// 0x2000002, both stocked in warehouse 0x4000001, plus an unrelated product
// 0x2000003 owned by company 0x1000002.
func seedCascade(t *testing.T, db *Database) {
	t.Helper()
	require.NoError(t, db.Insert(types.NewCompany("Acme", day(t, 1, 1, 2020), 0x1000001)))
	require.NoError(t, db.Insert(types.NewCompany("Globex", day(t, 1, 1, 2020), 0x1000002)))
	require.NoError(t, db.Insert(types.NewProduct("Anvil", 0x1000001, decimal.NewFromInt(10), types.Date{}, 0x2000001)))
	require.NoError(t, db.Insert(types.NewProduct("Rocket", 0x1000001, decimal.NewFromInt(20), types.Date{}, 0x2000002)))
	require.NoError(t, db.Insert(types.NewProduct("Stapler", 0x1000002, decimal.NewFromInt(1), types.Date{}, 0x2000003)))
	require.NoError(t, db.Insert(types.NewWarehouse("North", 100, types.Date{}, 0x4000001)))
	require.NoError(t, db.AddStock(0x4000001, 0x2000001, 10))
	require.NoError(t, db.AddStock(0x4000001, 0x2000002, 20))
	require.NoError(t, db.AddStock(0x4000001, 0x2000003, 5))
}

func productIDs(t *testing.T, db *Database) []types.ID {
	t.Helper()
	all, err := db.SelectAll(types.KindProduct)
	require.NoError(t, err)
	ids := make([]types.ID, len(all))
	for i, r := range all {
		ids[i] = r.RecordID()
	}
	return ids
}

func TestDeleteCompanyCascades(t *testing.T) {
	db, mem := attachedMem(t)
	seedCascade(t, db)
	writes := map[types.Kind]int{}
	for k, n := range mem.writes {
		writes[k] = n
	}

	require.NoError(t, db.Delete(0x1000001))

	_, err := db.Select(0x1000001)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, []types.ID{0x2000003}, productIDs(t, db))

	r, err := db.Select(0x4000001)
	require.NoError(t, err)
	w := r.(*types.Warehouse)
	assert.False(t, w.Contains(0x2000001))
	assert.False(t, w.Contains(0x2000002))
	assert.True(t, w.Contains(0x2000003))
	assert.Equal(t, 5, w.Quantity())

	for _, k := range []types.Kind{types.KindCompany, types.KindProduct, types.KindWarehouse} {
		assert.Equal(t, writes[k]+1, mem.writes[k], "kind %s persisted once", k)
	}
	assert.Equal(t, writes[types.KindUser], mem.writes[types.KindUser])
}

func TestDeleteProductStripsWarehouses(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)
	require.NoError(t, db.Insert(types.NewWarehouse("South", 10, types.Date{}, 0x4000002)))
	require.NoError(t, db.AddStock(0x4000002, 0x2000002, 3))

	require.NoError(t, db.Delete(0x2000002))

	assert.Equal(t, []types.ID{0x2000001, 0x2000003}, productIDs(t, db))
	for _, id := range []types.ID{0x4000001, 0x4000002} {
		r, err := db.Select(id)
		require.NoError(t, err)
		assert.False(t, r.(*types.Warehouse).Contains(0x2000002))
	}
}

func TestDeleteOtherKinds(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)

	require.NoError(t, db.Delete(0x4000001))
	_, err := db.Select(0x4000001)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Len(t, productIDs(t, db), 3, "deleting a warehouse leaves products")

	require.NoError(t, db.Delete(types.ID(types.KindUser)))
	users, err := db.SelectAll(types.KindUser)
	require.NoError(t, err)
	assert.Empty(t, users)

	assert.ErrorIs(t, db.Delete(0x1000099), types.ErrNotFound)
	assert.ErrorIs(t, db.Delete(0x8000001), types.ErrInvalidKind)
}

func TestUpdateFields(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)
	require.NoError(t, db.Insert(types.NewUser("Ada", "Lovelace", types.Date{}, 0x3000001, false, "ada", "engine")))

	tests := []struct {
		name  string
		id    types.ID
		field string
		value any
		check func(t *testing.T, r types.Record)
	}{
		{
			name: "company name", id: 0x1000002, field: types.CompanyFieldName, value: "Initech",
			check: func(t *testing.T, r types.Record) { assert.Equal(t, "Initech", r.(*types.Company).Name) },
		},
		{
			name: "blank name becomes null", id: 0x1000002, field: types.CompanyFieldName, value: "  ",
			check: func(t *testing.T, r types.Record) { assert.Equal(t, types.NullString, r.(*types.Company).Name) },
		},
		{
			name: "product weight", id: 0x2000001, field: types.ProductFieldWeight, value: decimal.RequireFromString("2.5"),
			check: func(t *testing.T, r types.Record) {
				assert.True(t, decimal.RequireFromString("2.5").Equal(r.(*types.Product).Weight))
			},
		},
		{
			name: "product owner", id: 0x2000001, field: types.ProductFieldCompany, value: types.CompanyRef(0x1000002),
			check: func(t *testing.T, r types.Record) {
				assert.Equal(t, types.CompanyRef(0x1000002), r.(*types.Product).Company)
			},
		},
		{
			name: "user administrator", id: 0x3000001, field: types.UserFieldAdministrator, value: true,
			check: func(t *testing.T, r types.Record) { assert.True(t, r.(*types.User).Administrator) },
		},
		{
			name: "warehouse date", id: 0x4000001, field: types.WarehouseFieldDate, value: day(t, 2, 29, 2024),
			check: func(t *testing.T, r types.Record) {
				assert.Equal(t, day(t, 2, 29, 2024), r.(*types.Warehouse).Date)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, db.Update(tt.id, tt.field, tt.value))
			r, err := db.Select(tt.id)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestUpdateRejectsLeaveRecordUnchanged(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)

	tests := []struct {
		name    string
		id      types.ID
		field   string
		value   any
		wantErr error
	}{
		{name: "unknown field", id: 0x1000001, field: "colour", value: "red", wantErr: types.ErrUnknownField},
		{name: "wrong value type", id: 0x1000001, field: types.CompanyFieldName, value: 42, wantErr: types.ErrTypeMismatch},
		{name: "date as string", id: 0x1000001, field: types.CompanyFieldDate, value: "01/01/2020", wantErr: types.ErrTypeMismatch},
		{name: "capacity below stock", id: 0x4000001, field: types.WarehouseFieldCapacity, value: 34, wantErr: types.ErrCapacityExceeded},
		{name: "id of another kind", id: 0x1000001, field: types.FieldID, value: types.ID(0x2000009), wantErr: types.ErrInvalidKind},
		{name: "id already used", id: 0x1000001, field: types.FieldID, value: types.ID(0x1000002), wantErr: types.ErrDuplicateID},
		{name: "missing record", id: 0x1000077, field: types.CompanyFieldName, value: "x", wantErr: types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := db.Select(tt.id)
			assert.ErrorIs(t, db.Update(tt.id, tt.field, tt.value), tt.wantErr)
			after, _ := db.Select(tt.id)
			assert.Equal(t, before, after)
		})
	}
}

func TestUpdateCompanyIDRepointsProducts(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)

	require.NoError(t, db.Update(0x1000001, types.FieldID, types.ID(0x1000010)))

	_, err := db.Select(0x1000001)
	assert.ErrorIs(t, err, types.ErrNotFound)
	for _, id := range []types.ID{0x2000001, 0x2000002} {
		r, err := db.Select(id)
		require.NoError(t, err)
		assert.Equal(t, types.CompanyRef(0x1000010), r.(*types.Product).Company)
	}

	require.NoError(t, db.Delete(0x1000010))
	assert.Equal(t, []types.ID{0x2000003}, productIDs(t, db), "cascade follows the new id")
}

func TestUpdateProductIDRekeysStock(t *testing.T) {
	db, _ := attached(t)
	seedCascade(t, db)

	require.NoError(t, db.Update(0x2000001, types.FieldID, types.ID(0x2000100)))

	r, err := db.Select(0x4000001)
	require.NoError(t, err)
	w := r.(*types.Warehouse)
	assert.False(t, w.Contains(0x2000001))
	assert.Equal(t, 10, w.ProductQuantity(0x2000100))
}

func TestJournalRecordsMutations(t *testing.T) {
	dir := t.TempDir()
	db := New(WithLogger(quietLogger()))
	require.NoError(t, db.Attach(types.Config{Backend: types.BackendLineFile, DataDir: dir, Journal: true}))
	defer db.Detach()

	require.NoError(t, db.Insert(types.NewCompany("Acme", types.Date{}, 0x1000001)))
	require.NoError(t, db.Insert(types.NewProduct("Anvil", 0x1000001, decimal.Zero, types.Date{}, 0x2000001)))
	require.NoError(t, db.Update(0x1000001, types.CompanyFieldName, "Acme Corp"))
	require.NoError(t, db.Delete(0x1000001))

	entries, err := journal.Read(db.JournalPath())
	require.NoError(t, err)

	var ops []journal.Operation
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	assert.Equal(t, []journal.Operation{
		journal.OpInsert, journal.OpInsert, journal.OpUpdate, journal.OpDelete, journal.OpCascade,
	}, ops)
	assert.Equal(t, types.ID(0x2000001), entries[4].RecordID)
	assert.Equal(t, types.ID(0x1000001), entries[4].Related)
	assert.Equal(t, types.CompanyFieldName, entries[2].Field)
}

func TestJournalOffByDefault(t *testing.T) {
	db, _ := attached(t)
	assert.Empty(t, db.JournalPath())
}
