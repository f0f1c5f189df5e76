package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "LOGISTICS"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyJournal   = "journal"
	cfgKeyMinFreeMB = "min_free_mb"
	cfgKeyLogLevel  = "log_level"

	defaultBackend  = types.BackendLineFile
	defaultLogLevel = "warn"
)

// envKeys are the config keys LOGISTICS_* variables override. data_dir is
// absent because its environment variable ranks below config.yaml and is
// handled by paths.ResolveDataDir.
var envKeys = []string{cfgKeyBackend, cfgKeyJournal, cfgKeyMinFreeMB, cfgKeyLogLevel}

// loadConfig reads config.yaml from configDir using Viper, after seeding the
// environment from an optional .env file in the same directory. A missing
// config.yaml or .env is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := godotenv.Load(filepath.Join(configDir, envFileName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFileName, err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyJournal, false)
	v.SetDefault(cfgKeyMinFreeMB, 0)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig builds the attach configuration from the loaded settings.
func storeConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   dataDir,
		Journal:   v.GetBool(cfgKeyJournal),
		MinFreeMB: v.GetUint64(cfgKeyMinFreeMB),
	}
}

// newLogger returns a logrus logger writing to w at the configured level.
func newLogger(v *viper.Viper, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeyLogLevel, err)
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	return log, nil
}

// withStore attaches a store for the duration of fn. The caller's error wins
// over a detach failure.
func (a *app) withStore(cmd *cobra.Command, fn func(*store.Database) error) (err error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}
	log, err := newLogger(a.v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	db := store.New(store.WithLogger(log))
	if err := db.Attach(storeConfig(a.v, dataDir)); err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) {
			return fmt.Errorf("config %s %q: %w", cfgKeyBackend, a.v.GetString(cfgKeyBackend), err)
		}
		log.WithError(err).WithField("data_dir", dataDir).Error("attach failed")
		return systemError(fmt.Errorf("attach: %w", err))
	}
	defer func() {
		if derr := db.Detach(); derr != nil && err == nil {
			err = systemError(fmt.Errorf("detach: %w", derr))
		}
	}()
	return fn(db)
}
