// Package linefile implements the flat-file codec for the logistics store.
// Each record kind lives in its own newline-delimited file with one field per
// line; records are concatenated without separators, so a reader recovers
// record boundaries by counting lines.
package linefile

import (
	"errors"
	"path/filepath"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// File names inside the data directory.
const (
	CompaniesFile  = "companies.u"
	ProductsFile   = "products.u"
	UsersFile      = "users.u"
	WarehousesFile = "warehouses.u"
)

// Lines per record for the fixed-width kinds. A warehouse record has
// warehouseHeaderLines lines followed by one line per stocked product.
const (
	companyLines         = 3
	productLines         = 5
	userLines            = 7
	warehouseHeaderLines = 5
)

// Codec errors.
var (
	ErrMalformedLine = errors.New("malformed line")
	ErrIsDirectory   = errors.New("path is a directory")
)

// Codec reads and writes the four collection files in a data directory.
// It implements types.Codec.
type Codec struct {
	dataDir string
}

var _ types.Codec = (*Codec)(nil)

// New returns a codec rooted at dataDir. Nothing is created until the first
// write.
func New(dataDir string) *Codec {
	if dataDir == "" {
		dataDir = "."
	}
	return &Codec{dataDir: dataDir}
}

// DataDir returns the directory holding the collection files.
func (c *Codec) DataDir() string {
	return c.dataDir
}

func (c *Codec) path(name string) string {
	return filepath.Join(c.dataDir, name)
}

// Close implements types.Codec. The codec holds no open files between calls.
func (c *Codec) Close() error {
	return nil
}
