package application

import (
	"context"
	"errors"
	"os"
	osSignal "os/signal"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"

	"github.com/hyperconf/hyperconf/internal/config"
	"github.com/hyperconf/hyperconf/internal/termconfig"
)

const testPath = "/home/me/.hyper.yaml"

func baseTestConfig() config.Config {
	return config.Config{
		Path:        testPath,
		LogLevel:    "debug",
		ReloadRPS:   0,
		ReloadBurst: 0,
	}
}

func writeDocument(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(config.Config{}, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadCommitsAndNotifies(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeDocument(t, fsys, testPath, "fontSize: 13\nshell: /bin/zsh\n")

	var received []termconfig.Configuration
	app, err := New(baseTestConfig(), zaptest.NewLogger(t),
		WithFs(fsys),
		WithSubscriber(func(cfg termconfig.Configuration) {
			received = append(received, cfg)
		}),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snap, err := app.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if snap.Revision != 1 || snap.Config.FontSize != 13 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(received) != 1 || received[0].Shell != "/bin/zsh" {
		t.Fatalf("expected subscriber to receive configuration, got %v", received)
	}
	if app.Current().Config.FontSize != 13 {
		t.Fatalf("Current did not return committed configuration")
	}
}

func TestLoadMissingDocumentUsesDefaults(t *testing.T) {
	app, err := New(baseTestConfig(), zaptest.NewLogger(t), WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snap, err := app.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if snap.Config.CursorShape != termconfig.CursorBlock || snap.Config.FontSize != 12 {
		t.Fatalf("expected defaults, got %+v", snap.Config)
	}
}

func TestReloadKeepsPreviousConfigurationOnFailure(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeDocument(t, fsys, testPath, "fontSize: 13\n")

	calls := 0
	app, err := New(baseTestConfig(), zaptest.NewLogger(t),
		WithFs(fsys),
		WithSubscriber(func(termconfig.Configuration) { calls++ }),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := app.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	writeDocument(t, fsys, testPath, "fontSize: thirteen\n")
	if _, err := app.Reload(context.Background()); !errors.Is(err, termconfig.ErrInvalidOptionType) {
		t.Fatalf("expected ErrInvalidOptionType, got %v", err)
	}

	current := app.Current()
	if current.Revision != 1 || current.Config.FontSize != 13 {
		t.Fatalf("expected previous configuration to remain, got %+v", current)
	}
	if calls != 1 {
		t.Fatalf("expected subscribers to be skipped on failure, got %d calls", calls)
	}

	writeDocument(t, fsys, testPath, "fontSize: 15\n")
	snap, err := app.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if snap.Revision != 2 || snap.Config.FontSize != 15 {
		t.Fatalf("unexpected snapshot after reload: %+v", snap)
	}
}

func TestStrictModeRejectsUnknownKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeDocument(t, fsys, testPath, "fontSize: 13\nhyperTabs: {}\n")

	cfg := baseTestConfig()
	cfg.Strict = true
	app, err := New(cfg, zaptest.NewLogger(t), WithFs(fsys))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := app.Load(); !errors.Is(err, termconfig.ErrUnrecognizedOption) {
		t.Fatalf("expected ErrUnrecognizedOption, got %v", err)
	}
}

type blockingLimiter struct{}

func (blockingLimiter) Wait(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReloadHonoursLimiter(t *testing.T) {
	app, err := New(baseTestConfig(), zaptest.NewLogger(t), WithFs(afero.NewMemMapFs()), withLimiter(blockingLimiter{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := app.Reload(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected throttled reload to fail with deadline, got %v", err)
	}
	if app.Current().Revision != 0 {
		t.Fatalf("expected nothing to be committed")
	}
}

func TestRunReloadsOnSIGHUP(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
		signalStop = osSignal.Stop
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			ch <- syscall.SIGHUP
		}()
	}
	signalStop = func(chan<- os.Signal) {}

	fsys := afero.NewMemMapFs()
	writeDocument(t, fsys, testPath, "fontSize: 16\n")

	reloaded := make(chan termconfig.Configuration, 1)
	app, err := New(baseTestConfig(), zaptest.NewLogger(t),
		WithFs(fsys),
		WithSubscriber(func(cfg termconfig.Configuration) {
			select {
			case reloaded <- cfg:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	select {
	case cfg := <-reloaded:
		if cfg.FontSize != 16 {
			t.Fatalf("expected fontSize 16, got %d", cfg.FontSize)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected SIGHUP to trigger a reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancellation")
	}
}

func TestRunReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hyper.yaml")
	if err := os.WriteFile(path, []byte("fontSize: 13\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := baseTestConfig()
	cfg.Path = path

	reloaded := make(chan termconfig.Configuration, 8)
	app, err := New(cfg, zaptest.NewLogger(t),
		WithFileWatch(true),
		WithSubscriber(func(cfg termconfig.Configuration) {
			select {
			case reloaded <- cfg:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := app.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	<-reloaded

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("fontSize: 20\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-reloaded:
			if got.FontSize == 20 {
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("Run returned error: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatalf("expected file change to trigger a reload")
		}
	}
}
