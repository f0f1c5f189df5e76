package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/logistics/internal/linefile"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// memCodec keeps collections in memory and can be told to fail writes.
type memCodec struct {
	companies  []*types.Company
	products   []*types.Product
	users      []*types.User
	warehouses []*types.Warehouse
	writes     map[types.Kind]int
	failWrites bool
	closed     bool
}

var errWrite = errors.New("disk on fire")

func newMemCodec() *memCodec {
	return &memCodec{writes: make(map[types.Kind]int)}
}

func (m *memCodec) ReadCompanies() ([]*types.Company, error) { return m.companies, nil }
func (m *memCodec) ReadProducts() ([]*types.Product, error) { return m.products, nil }
func (m *memCodec) ReadUsers() ([]*types.User, error) { return m.users, nil }
func (m *memCodec) ReadWarehouses() ([]*types.Warehouse, error) { return m.warehouses, nil }

func (m *memCodec) write(k types.Kind) error {
	if m.failWrites {
		return errWrite
	}
	m.writes[k]++
	return nil
}

func (m *memCodec) WriteCompanies([]*types.Company) error { return m.write(types.KindCompany) }
func (m *memCodec) WriteProducts([]*types.Product) error { return m.write(types.KindProduct) }
func (m *memCodec) WriteUsers([]*types.User) error { return m.write(types.KindUser) }
func (m *memCodec) WriteWarehouses([]*types.Warehouse) error { return m.write(types.KindWarehouse) }
func (m *memCodec) Close() error { m.closed = true; return nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func lineFileConfig(dir string) types.Config {
	return types.Config{Backend: types.BackendLineFile, DataDir: dir}
}

// attached returns a store attached to a fresh line-file data directory.
func attached(t *testing.T, opts ...Option) (*Database, string) {
	t.Helper()
	dir := t.TempDir()
	db := New(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, db.Attach(lineFileConfig(dir)))
	t.Cleanup(func() { db.Detach() })
	return db, dir
}

// attachedMem returns a store attached to an in-memory codec.
func attachedMem(t *testing.T, opts ...Option) (*Database, *memCodec) {
	t.Helper()
	mem := newMemCodec()
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithCodec(func(types.Config) (types.Codec, error) { return mem, nil }),
	}, opts...)
	db := New(opts...)
	require.NoError(t, db.Attach(lineFileConfig(t.TempDir())))
	return db, mem
}

func day(t *testing.T, month, d, year int) types.Date {
	t.Helper()
	date, err := types.NewDate(month, d, year)
	require.NoError(t, err)
	return date
}

func TestDetachedOperationsFail(t *testing.T) {
	db := New(WithLogger(quietLogger()))

	_, err := db.Select(0x1000001)
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = db.SelectAll(types.KindCompany)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, db.Insert(types.NewCompany("Acme", types.Date{}, 0x1000001)), types.ErrDetached)
	assert.ErrorIs(t, db.Delete(0x1000001), types.ErrDetached)
	assert.ErrorIs(t, db.Update(0x1000001, "name", "x"), types.ErrDetached)
	assert.ErrorIs(t, db.Save(), types.ErrDetached)
	_, err = db.GenerateID(types.KindCompany)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.False(t, db.ValidID(0x1000001))
	assert.NoError(t, db.Detach(), "detach is idempotent")
}

func TestAttachTwiceFails(t *testing.T) {
	db, dir := attached(t)
	assert.ErrorIs(t, db.Attach(lineFileConfig(dir)), types.ErrAlreadyAttached)
}

func TestAttachRejectsBadConfig(t *testing.T) {
	db := New(WithLogger(quietLogger()))
	assert.ErrorIs(t, db.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, db.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()}), types.ErrBackendUnknown)
}

func TestBootstrapAdministrator(t *testing.T) {
	db, dir := attached(t)

	r, err := db.Select(types.ID(types.KindUser))
	require.NoError(t, err)
	admin := r.(*types.User)
	assert.True(t, admin.Administrator)
	assert.Equal(t, types.DefaultAdministrator, admin.Username)
	assert.Equal(t, types.DefaultAdministrator, admin.Password)
	assert.Equal(t, "Administrator", admin.FirstName)

	users, err := linefile.New(dir).ReadUsers()
	require.NoError(t, err)
	require.Len(t, users, 1, "bootstrap user is persisted immediately")
	assert.Equal(t, types.ID(0x3000000), users[0].ID)
}

func TestBootstrapSkippedWhenUsersExist(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, linefile.New(dir).WriteUsers([]*types.User{
		types.NewUser("Ada", "Lovelace", day(t, 12, 10, 1815), 0x3000001, false, "ada", "engine"),
	}))

	db := New(WithLogger(quietLogger()))
	require.NoError(t, db.Attach(lineFileConfig(dir)))
	defer db.Detach()

	users, err := db.SelectAll(types.KindUser)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, types.ID(0x3000001), users[0].RecordID())
}

func TestAttachLoadFailureLeavesDetached(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, linefile.ProductsFile),
		[]byte("Anvil\n16777217\nheavy\n03/01/2021\n33554433\n"), 0o644))

	db := New(WithLogger(quietLogger()))
	err := db.Attach(lineFileConfig(dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, linefile.ErrMalformedLine)

	_, err = db.SelectAll(types.KindProduct)
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestAttachChecksFreeSpace(t *testing.T) {
	orig := freeSpace
	t.Cleanup(func() { freeSpace = orig })
	freeSpace = func(string) (uint64, error) { return 10 * mebibyte, nil }

	db := New(WithLogger(quietLogger()))
	cfg := lineFileConfig(t.TempDir())

	cfg.MinFreeMB = 11
	assert.ErrorIs(t, db.Attach(cfg), types.ErrInsufficientSpace)

	cfg.MinFreeMB = 10
	require.NoError(t, db.Attach(cfg))
	assert.NoError(t, db.Detach())
}

func TestReattachRestoresRecords(t *testing.T) {
	for _, backend := range []string{types.BackendLineFile, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := types.Config{Backend: backend, DataDir: dir}

			db := New(WithLogger(quietLogger()))
			require.NoError(t, db.Attach(cfg))
			require.NoError(t, db.Insert(types.NewCompany("Acme", day(t, 1, 15, 2020), 0x1000001)))
			require.NoError(t, db.Insert(types.NewProduct("Anvil", 0x1000001, decimal.NewFromInt(12), day(t, 3, 1, 2021), 0x2000001)))
			require.NoError(t, db.Insert(types.NewWarehouse("North", 50, day(t, 5, 5, 2022), 0x4000001)))
			require.NoError(t, db.AddStock(0x4000001, 0x2000001, 7))
			require.NoError(t, db.Detach())

			db2 := New(WithLogger(quietLogger()))
			require.NoError(t, db2.Attach(cfg))
			defer db2.Detach()

			r, err := db2.Select(0x4000001)
			require.NoError(t, err)
			assert.Equal(t, 7, r.(*types.Warehouse).ProductQuantity(0x2000001))

			stats, err := db2.Stats()
			require.NoError(t, err)
			assert.Equal(t, Stats{Companies: 1, Products: 1, Users: 1, Warehouses: 1, StockUnits: 7}, stats)
		})
	}
}

func TestSaveWritesEveryKind(t *testing.T) {
	db, mem := attachedMem(t)
	before := mem.writes[types.KindCompany]

	require.NoError(t, db.Save())
	for _, k := range types.Kinds {
		assert.Positive(t, mem.writes[k], "kind %s", k)
	}
	assert.Equal(t, before+1, mem.writes[types.KindCompany])

	require.NoError(t, db.Detach())
	assert.True(t, mem.closed)
}

func TestPersistFailureIsReturned(t *testing.T) {
	db, mem := attachedMem(t)
	mem.failWrites = true

	err := db.Insert(types.NewCompany("Acme", types.Date{}, 0x1000001))
	assert.ErrorIs(t, err, errWrite)
	assert.ErrorIs(t, err, ErrPersist)
}
