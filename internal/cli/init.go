package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	Journal   bool   `yaml:"journal"`
	MinFreeMB uint64 `yaml:"min_free_mb,omitempty"`
	LogLevel  string `yaml:"log_level"`
}

// initResult is the --json payload of the init command.
type initResult struct {
	Config  string `json:"config"`
	DataDir string `json:"data_dir"`
	Backend string `json:"backend"`
}

func newInitCmd(a *app) *cobra.Command {
	var (
		backend   string
		journal   bool
		minFreeMB uint64
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize logistics storage",
		Long: `Create the configuration and data directories, write config.yaml if it is
missing, and initialize the storage backend. An empty store gets the default
administrator account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFile{
				Backend:   backend,
				Journal:   journal,
				MinFreeMB: minFreeMB,
				LogLevel:  defaultLogLevel,
			}
			if a.flags.dataDir != "" {
				abs, err := filepath.Abs(a.flags.dataDir)
				if err != nil {
					return systemError(fmt.Errorf("resolve data dir: %w", err))
				}
				cfg.DataDir = abs
			}
			return a.runInit(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", defaultBackend, "storage backend: linefile or sqlite")
	cmd.Flags().BoolVar(&journal, "journal", false, "record every mutation in journal.jsonl")
	cmd.Flags().Uint64Var(&minFreeMB, "min-free-mb", 0, "refuse to attach below this much free disk space")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, cfg configFile) error {
	if err := (types.Config{Backend: cfg.Backend}).Validate(); err != nil {
		return fmt.Errorf("--backend %q: %w", cfg.Backend, err)
	}
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return systemError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, cfg); err != nil {
		return systemError(fmt.Errorf("write config: %w", err))
	}

	v, err := loadConfig(a.configDir)
	if err != nil {
		return systemError(err)
	}
	a.v = v

	return a.withStore(cmd, func(db *store.Database) error {
		attached := db.Config()
		res := initResult{Config: configPath, DataDir: attached.DataDir, Backend: attached.Backend}
		return a.message(cmd, res, "Logistics initialized (%s backend)\nconfig: %s\ndata:   %s",
			res.Backend, res.Config, res.DataDir)
	})
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left untouched.
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
