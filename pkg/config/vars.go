package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "trapdb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/trapdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for data produced by trapdb.
// Returns ~/.local/share/trapdb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/trapdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// BackupDir returns the directory path for migration backups.
// Returns ~/.local/share/trapdb/backups by default.
func BackupDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "backups")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/trapdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
