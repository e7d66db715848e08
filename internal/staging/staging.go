// Package staging manages the temporary directory that holds staged script
// files for the lifetime of one analysis run.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blackwell-systems/platovue/internal/extract"
	"github.com/blackwell-systems/platovue/internal/output"
)

// DirName is the staging directory created inside the output directory.
const DirName = "temp-analysis"

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// Cleanup removes the staged files and the staging directory, then reports
// that the run is complete.
func Cleanup(files []extract.StagedFile, dir string, log *output.Logger) {
	Remove(files, dir, log)

	log.Infof("\n🧹 Temporary files cleaned up.")
	log.Infof("✅ Analysis complete!")
}

// Remove deletes every staged file that still exists, then removes dir if
// it is empty. Failures are reported at debug level and never returned.
func Remove(files []extract.StagedFile, dir string, log *output.Logger) {
	for _, f := range files {
		if f.StagedPath == "" {
			continue
		}
		if err := os.Remove(f.StagedPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debugf("Could not remove %s: %v", f.StagedPath, err)
		}
	}

	// Non-empty or already removed; either way leave it.
	_ = os.Remove(dir)
}
