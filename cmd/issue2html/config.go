package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trackerview/go-issue2html/internal/fileutil"
	"github.com/trackerview/go-issue2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// defaultConfigName is looked up in the working directory when --config is
// not given.
const defaultConfigName = ".issue2html.yaml"

// fileConfig holds defaults read from the YAML config file. Flags given
// explicitly on the command line win over config values.
type fileConfig struct {
	BaseURL        string `yaml:"baseURL"`
	Format         string `yaml:"format"`
	AttachmentsDir string `yaml:"attachmentsDir"`
}

// loadConfig reads the config file at path. An empty path falls back to the
// default name and returns an empty config if none exists; an explicit path
// that is missing is an error.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
		if !fileutil.FileExists(path) {
			return &fileConfig{}, nil
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &fileConfig{}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// mergeConfig fills unset flags from the config file.
func mergeConfig(flags *cliFlags, cfg *fileConfig) {
	if flags.baseURL == "" {
		flags.baseURL = cfg.BaseURL
	}
	if flags.attachmentsDir == "" {
		flags.attachmentsDir = cfg.AttachmentsDir
	}
	if flags.format == formatAuto && cfg.Format != "" {
		flags.format = cfg.Format
	}
}
