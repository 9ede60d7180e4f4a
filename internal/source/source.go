package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hyperconf/hyperconf/internal/termconfig"
)

// dotfiles are the well-known document names looked up in the home directory, in order.
var dotfiles = []string{".hyper.yaml", ".hyper.yml", ".hyper.json", ".hyper.toml"}

// DefaultPath returns the first existing dotfile in the user's home directory, or
// $HOME/.hyper.yaml when none exists yet.
func DefaultPath(fsys afero.Fs) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	for _, name := range dotfiles {
		candidate := filepath.Join(home, name)
		if ok, _ := afero.Exists(fsys, candidate); ok {
			return candidate, nil
		}
	}
	return filepath.Join(home, dotfiles[0]), nil
}

// FormatFor picks the document format from the file extension.
func FormatFor(path string) termconfig.Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return termconfig.FormatTOML
	}
	return termconfig.FormatYAML
}

// Result is the outcome of reading the document.
type Result struct {
	Config termconfig.Configuration
	// Found is false when the document did not exist and defaults were used.
	Found bool
	Path  string
}

// Source reads the configuration document from a filesystem.
type Source struct {
	fs     afero.Fs
	path   string
	strict bool
}

// New creates a Source for path on fsys.
func New(fsys afero.Fs, path string, strict bool) *Source {
	return &Source{fs: fsys, path: path, strict: strict}
}

// Path returns the document location.
func (s *Source) Path() string {
	return s.path
}

// Load reads and validates the document. A missing document yields the defaults.
func (s *Source) Load() (Result, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Config: termconfig.Defaults(), Path: s.path}, nil
		}
		return Result{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	cfg, err := termconfig.Parse(data, FormatFor(s.path),
		termconfig.WithStrict(s.strict),
		termconfig.WithSource(s.path),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Config: cfg, Found: true, Path: s.path}, nil
}
