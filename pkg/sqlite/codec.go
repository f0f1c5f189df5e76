// Package sqlite provides the public API for the SQLite codec. It exposes
// the factory while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/logistics/internal/sqlite"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// FileName is the database file the codec keeps in its data directory.
const FileName = sqlite.FileName

// NewCodec opens or creates the SQLite database in dataDir and returns it as
// a types.Codec. The caller must Close it.
//
// Example:
//
//	codec, err := sqlite.NewCodec(".logistics-db")
//	if err != nil {
//	    return err
//	}
//	defer codec.Close()
//	companies, err := codec.ReadCompanies()
func NewCodec(dataDir string) (types.Codec, error) {
	c, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
