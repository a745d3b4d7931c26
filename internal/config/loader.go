package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configExtensions lists the file extensions tried in each search directory.
var configExtensions = []string{".yaml", ".yml", ".toml"}

// LoadTetris loads Tetris configuration.
// Search order: customPath -> ~/.arcade/configs/tetris.{yaml,yml,toml} ->
// ./configs/tetris.{yaml,yml,toml} -> embedded default.
// Files are decoded over the defaults, so partial files are allowed.
func LoadTetris(customPath string) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()

	// Try custom path first
	if customPath != "" {
		if err := decodeFile(customPath, &cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory.
	// Only missing files are skipped; a broken file is an error.
	for _, dir := range searchDirs() {
		for _, ext := range configExtensions {
			candidate := DefaultTetrisConfig()
			err := decodeFile(filepath.Join(dir, "tetris"+ext), &candidate)
			if err == nil {
				return candidate, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return DefaultTetrisConfig(), err
			}
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTetrisYAML, &cfg); err != nil {
		return DefaultTetrisConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeFile reads path and decodes it by extension into cfg.
func decodeFile(path string, cfg *TetrisConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// searchDirs returns the user and local config directories in search order.
func searchDirs() []string {
	var dirs []string
	if userDir := userConfigPath(""); userDir != "" {
		dirs = append(dirs, userDir)
	}
	return append(dirs, "configs")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Encode writes cfg in the given format ("yaml" or "toml").
func Encode(cfg TetrisConfig, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(cfg)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}
