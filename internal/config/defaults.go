// Package config provides configuration loading and defaults for platovue.
package config

import (
	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/scanner"
	"github.com/blackwell-systems/platovue/internal/staging"
)

// DefaultConfigDir is the default location for platovue configuration.
const DefaultConfigDir = "~/.config/platovue"

// DefaultDBName is the filename for the run history database.
const DefaultDBName = "history.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. PLATOVUE_MAX_DEPTH.
const EnvPrefix = "PLATOVUE"

// DefaultOutputDir is the report directory used when none is given,
// resolved against the working directory.
const DefaultOutputDir = "plato-report"

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = scanner.DefaultExcludes

// DefaultMaxDepth is the deepest directory level scanned below the root.
const DefaultMaxDepth = scanner.DefaultMaxDepth

// Default file extensions.
const (
	DefaultComponentExt = ".vue"
	DefaultScriptExt    = ".js"
)

// DefaultStagingDirName is the staging directory inside the output directory.
const DefaultStagingDirName = staging.DirName

// DefaultReportTitle is the title handed to the analysis engine.
const DefaultReportTitle = analyzer.DefaultTitle

// DefaultHistory holds the default run history settings.
var DefaultHistory = History{
	Enabled: true,
	Limit:   10,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
