package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is the local coverlay state as a generic map of key-value pairs.
// The watch session stores the latest rendered summary here so shell prompts
// can show it without talking to the running process.
type State map[string]interface{}

// Well-known state keys.
const (
	KeySummary   = "coverage.summary"
	KeyWarn      = "coverage.warn"
	KeyUpdatedAt = "coverage.updated_at"
)

// stateFilePath returns the path to the state file, .coverlay/state.yml in
// the current working directory. Each workspace keeps its own state.
func stateFilePath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current directory: %w", err)
	}
	return filepath.Join(cwd, ".coverlay", "state.yml"), nil
}

// Load loads the state from the state file.
// Returns an empty state if the file doesn't exist.
func Load() (State, error) {
	path, err := stateFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if s == nil {
		s = make(State)
	}
	return s, nil
}

// Save saves the state to the state file.
func Save(s State) error {
	path, err := stateFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Get retrieves a value from the state by key.
func Get(key string) (interface{}, bool, error) {
	s, err := Load()
	if err != nil {
		return nil, false, err
	}
	val, ok := s[key]
	return val, ok, nil
}

// GetString is a convenience function to get a string value from state.
// Returns empty string if the key doesn't exist or the value is not a string.
func GetString(key string) (string, error) {
	val, ok, err := Get(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	str, ok := val.(string)
	if !ok {
		return "", nil
	}
	return str, nil
}

// Set sets a value in the state.
func Set(key string, value interface{}) error {
	s, err := Load()
	if err != nil {
		return err
	}
	s[key] = value
	return Save(s)
}

// Delete removes a key from the state.
func Delete(key string) error {
	s, err := Load()
	if err != nil {
		return err
	}
	delete(s, key)
	return Save(s)
}
