package config

import (
	"os"
	"path/filepath"
)

// HomeDirName is the name of the saju home directory
const HomeDirName = ".saju"

// HomeDir returns the saju home directory path (~/.saju)
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HomeDirName)
}

// DBPath returns the default database path (~/.saju/saju.db)
func DBPath() string {
	return filepath.Join(HomeDir(), "saju.db")
}

// ConfigPath returns the config file path (~/.saju/config.yaml)
func ConfigPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// CorpusPath returns the default YAML corpus path (~/.saju/corpus.yaml)
func CorpusPath() string {
	return filepath.Join(HomeDir(), "corpus.yaml")
}

// EnsureHomeDir creates the saju home directory
func EnsureHomeDir() error {
	return os.MkdirAll(HomeDir(), 0755)
}
