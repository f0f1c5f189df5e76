package types

import "errors"

// Config holds backend selection and parameters for Database.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Journal enables the append-only change journal in DataDir.
	Journal bool `json:"journal" yaml:"journal"`

	// MinFreeMB is the free space DataDir must have at attach time.
	// Zero disables the check.
	MinFreeMB uint64 `json:"min_free_mb" yaml:"min_free_mb"`
}

// Supported backend names.
const (
	BackendLineFile = "linefile"
	BackendSQLite   = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendLineFile: true,
	BackendSQLite:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
