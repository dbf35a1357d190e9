package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrMalformed reports an rc file that exists but cannot be decoded.
var ErrMalformed = errors.New("malformed rc file")

const rcFileName = ".jqshrc"

// Config holds the user-tunable interpreter settings. All fields have
// working defaults; an rc file only overrides what it names.
type Config struct {
	// Prompt is the interactive prompt string.
	Prompt string `yaml:"prompt"`
	// HistoryPath locates the interactive history database. Empty
	// disables history.
	HistoryPath string `yaml:"history_path"`
	// Debug enables debug logging on stderr.
	Debug bool `yaml:"debug"`
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Prompt:      "jqsh> ",
		HistoryPath: filepath.Join(home, ".jqsh_history.db"),
	}
}

// Load returns the defaults merged with the user's rc file, if one
// exists. A missing rc file is not an error.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	return loadFile(filepath.Join(home, rcFileName))
}

func loadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(ErrMalformed, "%s: %v", path, err)
	}
	return cfg, nil
}
