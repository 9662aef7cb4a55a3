package topology

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes the graph as indented json to path, creating parent
// directories as needed
func (g Graph) WriteFile(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")

	if err != nil {
		return errors.Wrap(err, "failed to encode topology")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write topology file")
	}

	return nil
}

// DumpDevices writes the raw crawl results without assembly. Used to
// preserve partial data when a run is interrupted.
func DumpDevices(devices map[string]*Device, path string) error {
	data, err := json.MarshalIndent(devices, "", "  ")

	if err != nil {
		return errors.Wrap(err, "failed to encode devices")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write device dump")
	}

	return nil
}
