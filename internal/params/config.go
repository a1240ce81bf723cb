package params

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads the persisted default ProcessParams from path. If the
// file doesn't exist, it returns Defaults() without error.
func LoadDefaults(path string) (ProcessParams, error) {
	p := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ProcessParams{}, fmt.Errorf("params: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ProcessParams{}, fmt.Errorf("params: parsing %s: %w", path, err)
	}
	return p, nil
}

// SaveDefaults persists p as the default ProcessParams at path, creating
// its parent directory if needed.
func SaveDefaults(p ProcessParams, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("params: creating %s: %w", dir, err)
		}
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("params: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("params: writing %s: %w", path, err)
	}
	return nil
}

// ReadFrom loads a ProcessParams from an arbitrary config file path,
// returning an error if the file doesn't exist or fails to parse —
// unlike LoadDefaults, a missing file here is a caller mistake, not an
// unconfigured install.
func ReadFrom(path string) (ProcessParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProcessParams{}, fmt.Errorf("params: reading %s: %w", path, err)
	}
	var p ProcessParams
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ProcessParams{}, fmt.Errorf("params: parsing %s: %w", path, err)
	}
	return p, nil
}

// SaveTo writes p to an arbitrary destination path.
func SaveTo(p ProcessParams, path string) error {
	return SaveDefaults(p, path)
}
