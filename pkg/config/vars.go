package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gntree"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gntree by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gntree by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// SFGACacheDir returns the directory where SFGA archives are extracted.
// Returns ~/.cache/gntree/sfga by default.
func SFGACacheDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "sfga")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gntree/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gntree/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
