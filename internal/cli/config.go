package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	StateFile string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("KMAP_SERVER", "http://localhost:8080"),
		StateFile: getEnvOrDefault("KMAP_STATE_FILE", defaultStateFile()),
		Output:    "text",
	}
}

// State is what the CLI remembers between invocations
type State struct {
	Session    *Session         `json:"session,omitempty"`
	TimeAttack *TimeAttackState `json:"time_attack,omitempty"`
}

// LoadState reads the state file. A missing file is an empty state.
func (c *Config) LoadState() (*State, error) {
	data, err := os.ReadFile(c.StateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("corrupt state file %s: %w", c.StateFile, err)
	}
	return &st, nil
}

// SaveState writes the state file
func (c *Config) SaveState(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.StateFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.StateFile, data, 0600)
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kmapgame/state.json"
	}
	return filepath.Join(home, ".kmapgame", "state.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
