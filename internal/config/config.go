package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level platovue configuration.
type Config struct {
	ExcludeDirs    []string `mapstructure:"exclude_dirs"`
	MaxDepth       int      `mapstructure:"max_depth"`
	ComponentExt   string   `mapstructure:"component_ext"`
	ScriptExt      string   `mapstructure:"script_ext"`
	StagingDirName string   `mapstructure:"staging_dir_name"`
	ReportTitle    string   `mapstructure:"report_title"`
	OutputDir      string   `mapstructure:"output_dir"`
	History        History  `mapstructure:"history"`
	Output         Output   `mapstructure:"output"`
}

// History configures run recording.
type History struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
	Limit   int    `mapstructure:"limit"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with PLATOVUE_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("exclude_dirs", DefaultExcludeDirs)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("component_ext", DefaultComponentExt)
	v.SetDefault("script_ext", DefaultScriptExt)
	v.SetDefault("staging_dir_name", DefaultStagingDirName)
	v.SetDefault("report_title", DefaultReportTitle)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("history.enabled", DefaultHistory.Enabled)
	v.SetDefault("history.db_path", DBPath())
	v.SetDefault("history.limit", DefaultHistory.Limit)
	v.SetDefault("output.color", DefaultOutput.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.History.DBPath = expandPath(cfg.History.DBPath)
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	return &cfg, nil
}

// DBPath returns the default path to the run history database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
