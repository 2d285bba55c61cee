package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default opsim data directory name (relative to home).
	DefaultDataDir = ".opsim"
	// DBFile is the filename of the history database.
	DBFile = "opsim.db"
	// CatalogFile is the filename of the user catalog, picked automatically when present.
	CatalogFile = "catalog.yaml"
)

// DataDir returns the opsim data directory for a home directory.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir)
}

// DBPath returns the default history database path for a home directory.
func DBPath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), DBFile)
}

// CatalogPath returns the default user catalog path for a home directory.
func CatalogPath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), CatalogFile)
}
