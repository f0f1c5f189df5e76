// Package cli implements the logistics command-line interface. Commands are
// thin callers of store.Database: each one attaches a store, runs a single
// operation, renders the result, and detaches.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/logistics/internal/paths"
	"github.com/mesh-intelligence/logistics/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by one command tree.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
}

// NewRootCmd creates the top-level "logistics" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "logistics",
		Short: "A record store for companies, products, users, and warehouses",
		Long: "Logistics keeps companies, the products they make, the warehouses that\n" +
			"stock them, and the users who log in, in a local data directory.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.preRun,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.logistics or the per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.logistics-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newStatusCmd(a),
		newGetCmd(a),
		newLoginCmd(a),
		newHistoryCmd(a),
		newCompanyCmd(a),
		newProductCmd(a),
		newUserCmd(a),
		newWarehouseCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// preRun resolves the configuration directory and loads config.yaml.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(dir)
	if err != nil {
		return systemError(err)
	}
	a.configDir = dir
	a.v = v
	return nil
}

// dataDir follows --data-dir > config.yaml data_dir > LOGISTICS_DATA_DIR > default.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	return dir, nil
}

// sysError marks a failure of the environment rather than of the request.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return sysError{err: err}
}

// exitCode maps a command error to a process exit code. Failed writes and
// anything marked by systemError exit 2; every other error is the caller's.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se sysError
	if errors.As(err, &se) || errors.Is(err, store.ErrPersist) {
		return exitSysError
	}
	return exitUserError
}
