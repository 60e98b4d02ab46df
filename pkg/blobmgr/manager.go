// Package blobmgr wires configuration, logging, and the filesystem blobstore
// provider into one manager object for embedding in tools and tests.
package blobmgr

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/blobfs/blobfs/pkg/blobfs"
)

type Manager struct {
	Provider *blobfs.FsProvider
	Logger   logrus.FieldLogger
	Cfg      *viper.Viper
}

// NewManager builds a manager from user options. Recognized options:
//   "config-file" (string): explicit config file path
//   "logger" (logrus.FieldLogger): externally provided logger
func NewManager(userCfg map[string]interface{}) (*Manager, error) {
	var err error
	mgr := &Manager{}

	if cfgPathRaw, ok := userCfg["config-file"]; ok {
		if cfgPath, ok := cfgPathRaw.(string); ok {
			err = mgr.initConfig(&cfgPath)
		} else {
			return nil, errors.New("option 'config-file' must be of type string")
		}
	} else {
		err = mgr.initConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	if loggerRaw, ok := userCfg["logger"]; ok {
		if logger, ok := loggerRaw.(logrus.FieldLogger); ok {
			mgr.Logger = logger
		} else {
			return nil, errors.New("option 'logger' must satisfy logrus.FieldLogger")
		}
	} else {
		logger := logrus.New()
		if level, err := logrus.ParseLevel(mgr.Cfg.GetString("log-level")); err == nil {
			logger.SetLevel(level)
		}
		mgr.Logger = logger
	}

	mgr.Provider = blobfs.NewProvider(
		mgr.Logger.WithField("module", "blobfs"),
		mgr.Cfg.GetInt64("io-concurrency"))

	return mgr, nil
}

// Destroy releases the manager. The provider holds no resources beyond its
// in-memory tables, so this only exists to keep the embedding contract
// symmetric with construction.
func (mgr *Manager) Destroy() {}

func (mgr *Manager) initConfig(cfgPath *string) error {
	// This is a private viper context just for the blobstore (so as not to
	// conflict with the importer's usage).
	mgr.Cfg = viper.New()

	// Backing directory handed to tenant registration as the ROOT option.
	mgr.Cfg.SetDefault("root", blobfs.DefaultRoot)

	// Identity the CLI registers and operates as.
	mgr.Cfg.SetDefault("tenant", "default")

	mgr.Cfg.SetDefault("io-concurrency", blobfs.DefaultIOConcurrency)
	mgr.Cfg.SetDefault("log-level", "info")

	// Order of precedence: ENV, blobfs.yaml, defaults.
	mgr.Cfg.BindEnv("root", "BLOBFS_ROOT")
	mgr.Cfg.BindEnv("tenant", "BLOBFS_TENANT")

	if cfgPath != nil {
		// Use config file from the flag.
		mgr.Cfg.SetConfigFile(*cfgPath)
	} else {
		// default search path for config is ./configs/blobfs.* (* can be
		// json, yaml, etc)
		mgr.Cfg.AddConfigPath("./configs")
		mgr.Cfg.SetConfigName("blobfs")
	}

	if err := mgr.Cfg.ReadInConfig(); err != nil {
		// Only an explicitly requested file is required to exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgPath == nil {
			return nil
		}
		return errors.Wrap(err, "Failed to load config")
	}
	return nil
}
