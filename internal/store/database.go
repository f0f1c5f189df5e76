// Package store implements the in-memory record store for the logistics
// system. A Database owns every Company, Product, User, and Warehouse record,
// enforces the identifier scheme and the cross-kind cascades, and writes each
// affected collection back through a types.Codec after every mutation.
package store

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/logistics/internal/journal"
	"github.com/mesh-intelligence/logistics/internal/linefile"
	"github.com/mesh-intelligence/logistics/pkg/sqlite"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// ErrPersist marks a failure to write a collection back through the codec.
// The in-memory change has already been applied when it is returned.
var ErrPersist = errors.New("persist failed")

// Database is the record store. The zero value is not usable; call New.
// All methods are safe for concurrent use. Reads share the lock and
// mutations hold it exclusively, including the persistence write.
type Database struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	codec    types.Codec
	journal  *journal.Journal
	log      *logrus.Logger

	// newCodec overrides backend selection when set.
	newCodec func(types.Config) (types.Codec, error)
	intn     func(n int) int

	companies  []*types.Company
	products   []*types.Product
	users      []*types.User
	warehouses []*types.Warehouse
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger. The default is logrus.New().
func WithLogger(l *logrus.Logger) Option {
	return func(d *Database) {
		if l != nil {
			d.log = l
		}
	}
}

// WithCodec replaces backend selection with a fixed codec factory.
func WithCodec(open func(types.Config) (types.Codec, error)) Option {
	return func(d *Database) { d.newCodec = open }
}

// WithRand sets the source used to draw identifier suffixes. intn must
// return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(d *Database) {
		if intn != nil {
			d.intn = intn
		}
	}
}

// New returns a detached Database.
func New(opts ...Option) *Database {
	d := &Database{
		log:  logrus.New(),
		intn: rand.IntN,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Logger returns the logger the database writes to.
func (d *Database) Logger() *logrus.Logger {
	return d.log
}

// openCodec picks the codec for cfg.Backend.
func openCodec(cfg types.Config) (types.Codec, error) {
	switch cfg.Backend {
	case types.BackendLineFile:
		return linefile.New(cfg.DataDir), nil
	case types.BackendSQLite:
		return sqlite.NewCodec(cfg.DataDir)
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Attach opens the configured backend, loads all four collections, and
// applies the bootstrap rule. The store accepts operations only after Attach
// returns nil. A load failure leaves the store detached.
func (d *Database) Attach(cfg types.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.attached {
		return types.ErrAlreadyAttached
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if cfg.MinFreeMB > 0 {
		if err := checkFreeSpace(cfg.DataDir, cfg.MinFreeMB); err != nil {
			return err
		}
	}

	open := d.newCodec
	if open == nil {
		open = openCodec
	}
	codec, err := open(cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	if err := d.load(codec); err != nil {
		codec.Close()
		d.reset()
		return err
	}

	d.codec = codec
	d.config = cfg
	if cfg.Journal {
		d.journal = journal.Open(cfg.DataDir)
	}

	if len(d.users) == 0 {
		admin := types.NewDefaultAdministrator()
		d.users = append(d.users, admin)
		d.log.WithFields(logrus.Fields{"id": admin.ID.String(), "username": admin.Username}).
			Warn("user collection empty, created default administrator")
		if err := d.persist(types.KindUser); err != nil {
			codec.Close()
			d.reset()
			return err
		}
	}

	d.attached = true
	d.log.WithFields(logrus.Fields{
		"backend":    cfg.Backend,
		"data_dir":   cfg.DataDir,
		"companies":  len(d.companies),
		"products":   len(d.products),
		"users":      len(d.users),
		"warehouses": len(d.warehouses),
	}).Info("store attached")
	return nil
}

func (d *Database) load(codec types.Codec) error {
	var err error
	if d.companies, err = codec.ReadCompanies(); err != nil {
		return fmt.Errorf("load companies: %w", err)
	}
	if d.products, err = codec.ReadProducts(); err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if d.users, err = codec.ReadUsers(); err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if d.warehouses, err = codec.ReadWarehouses(); err != nil {
		return fmt.Errorf("load warehouses: %w", err)
	}
	return nil
}

func (d *Database) reset() {
	d.codec = nil
	d.journal = nil
	d.companies = nil
	d.products = nil
	d.users = nil
	d.warehouses = nil
}

// Detach saves every collection, closes the backend, and drops the records
// from memory. Detach is idempotent.
func (d *Database) Detach() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return nil
	}
	saveErr := d.persist(types.Kinds...)
	closeErr := d.codec.Close()
	d.attached = false
	d.reset()
	d.log.Info("store detached")
	return errors.Join(saveErr, closeErr)
}

// Save writes every collection through the codec.
func (d *Database) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.attached {
		return types.ErrDetached
	}
	return d.persist(types.Kinds...)
}

// Config returns the configuration the store was attached with.
func (d *Database) Config() types.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}

// JournalPath returns the journal file path, or "" when journaling is off.
func (d *Database) JournalPath() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.journal == nil {
		return ""
	}
	return d.journal.Path()
}

// persist writes each listed kind once, in the order given.
func (d *Database) persist(kinds ...types.Kind) error {
	for _, k := range kinds {
		var err error
		switch k {
		case types.KindCompany:
			err = d.codec.WriteCompanies(d.companies)
		case types.KindProduct:
			err = d.codec.WriteProducts(d.products)
		case types.KindUser:
			err = d.codec.WriteUsers(d.users)
		case types.KindWarehouse:
			err = d.codec.WriteWarehouses(d.warehouses)
		}
		if err != nil {
			d.log.WithFields(logrus.Fields{"kind": k.String()}).WithError(err).Error("persist failed")
			return fmt.Errorf("%w: %s: %w", ErrPersist, k, err)
		}
	}
	return nil
}

// record appends a journal entry when journaling is on. A journal failure
// is logged; the mutation it describes has already been persisted.
func (d *Database) record(e journal.Entry) {
	fields := logrus.Fields{"op": string(e.Operation), "kind": e.Kind, "id": e.RecordID.String()}
	if e.Field != "" {
		fields["field"] = e.Field
	}
	d.log.WithFields(fields).Debug("mutation")

	if d.journal == nil {
		return
	}
	if err := d.journal.Append(e); err != nil {
		d.log.WithFields(fields).WithError(err).Error("journal append failed")
	}
}
