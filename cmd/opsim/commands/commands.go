package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/conventions"
	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/printer"
	storageio "github.com/slok/opsim/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug       bool
	NoLog       bool
	NoColor     bool
	LoggerType  string
	DBPath      string
	CatalogPath string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger and output color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	home := homedir.HomeDir()
	app.Flag("db-path", "Path to the SQLite history database file.").Envar("OPSIM_DB_PATH").Default(conventions.DBPath(home)).StringVar(&c.DBPath)
	app.Flag("catalog", "Path to a YAML or TOML catalog file merged over the built-in stages. Defaults to "+conventions.CatalogPath(home)+" when present.").StringVar(&c.CatalogPath)

	return c
}

// loadCatalog returns the built-in catalog with the user catalog file entries on top.
func (r RootCommand) loadCatalog(ctx context.Context) (*catalog.Static, error) {
	catalogPath := r.CatalogPath
	if catalogPath == "" {
		defaultPath := conventions.CatalogPath(homedir.HomeDir())
		if _, err := os.Stat(defaultPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return catalog.Default(), nil
			}
			return nil, fmt.Errorf("could not check default catalog: %w", err)
		}
		catalogPath = defaultPath
	}

	// fs.FS paths are slash separated and unrooted, so the repository is rooted at the file directory.
	repo := storageio.NewCatalogFileRepository(os.DirFS(filepath.Dir(catalogPath)))
	entries, err := repo.GetCatalog(ctx, filepath.Base(catalogPath))
	if err != nil {
		return nil, fmt.Errorf("could not load catalog %q: %w", catalogPath, err)
	}
	r.Logger.Debugf("Loaded %d catalog entries from %s", len(entries), catalogPath)

	c, err := catalog.NewStatic(catalog.Merge(catalog.DefaultEntries(), entries))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return c, nil
}

func (r RootCommand) newPrinter(format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(r.Stdout)
	default:
		return printer.NewTablePrinter(r.Stdout)
	}
}
