package source

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/hyperconf/hyperconf/internal/termconfig"
)

func TestLoadMissingDocumentUsesDefaults(t *testing.T) {
	t.Parallel()

	src := New(afero.NewMemMapFs(), "/home/me/.hyper.yaml", false)
	res, err := src.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res.Found {
		t.Fatalf("expected Found to be false for missing document")
	}
	if !reflect.DeepEqual(res.Config, termconfig.Defaults()) {
		t.Fatalf("expected defaults for missing document")
	}
}

func TestLoadReadsYAMLAndTOML(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/cfg/.hyper.yaml": "fontSize: 13\nshell: /bin/zsh\n",
		"/cfg/.hyper.json": `{"fontSize": 13, "shell": "/bin/zsh"}`,
		"/cfg/.hyper.toml": "fontSize = 13\nshell = \"/bin/zsh\"\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	for path := range files {
		path := path
		t.Run(filepath.Ext(path), func(t *testing.T) {
			t.Parallel()

			res, err := New(fsys, path, false).Load()
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if !res.Found || res.Path != path {
				t.Fatalf("unexpected result metadata: %+v", res)
			}
			if res.Config.FontSize != 13 || res.Config.Shell != "/bin/zsh" {
				t.Fatalf("unexpected configuration: %+v", res.Config)
			}
		})
	}
}

func TestLoadPropagatesValidationErrors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/cfg/.hyper.yaml", []byte("fontSize: thirteen\nunknownKey: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := New(fsys, "/cfg/.hyper.yaml", true).Load()
	if !errors.Is(err, termconfig.ErrInvalidOptionType) {
		t.Fatalf("expected ErrInvalidOptionType, got %v", err)
	}
	if !errors.Is(err, termconfig.ErrUnrecognizedOption) {
		t.Fatalf("expected ErrUnrecognizedOption in strict mode, got %v", err)
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/cfg/.hyper.toml", []byte("fontSize = = 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := New(fsys, "/cfg/.hyper.toml", false).Load()
	if !errors.Is(err, termconfig.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestDefaultPathPrefersExistingDotfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	fsys := afero.NewMemMapFs()
	path, err := DefaultPath(fsys)
	if err != nil {
		t.Fatalf("DefaultPath returned error: %v", err)
	}
	if want := filepath.Join(home, ".hyper.yaml"); path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}

	tomlPath := filepath.Join(home, ".hyper.toml")
	if err := afero.WriteFile(fsys, tomlPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path, err = DefaultPath(fsys)
	if err != nil {
		t.Fatalf("DefaultPath returned error: %v", err)
	}
	if path != tomlPath {
		t.Fatalf("expected %s, got %s", tomlPath, path)
	}
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	if FormatFor("/x/.hyper.TOML") != termconfig.FormatTOML {
		t.Fatalf("expected TOML for .TOML extension")
	}
	if FormatFor("/x/.hyper.json") != termconfig.FormatYAML {
		t.Fatalf("expected YAML decoder for JSON documents")
	}
}
