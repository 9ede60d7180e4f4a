package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hyperconf/hyperconf/internal/config"
	"github.com/hyperconf/hyperconf/internal/source"
	"github.com/hyperconf/hyperconf/internal/storage"
	"github.com/hyperconf/hyperconf/internal/termconfig"
)

var (
	signalNotify = signal.Notify
	signalStop   = signal.Stop
)

// Subscriber receives every newly committed configuration.
type Subscriber func(cfg termconfig.Configuration)

// App owns the configuration lifecycle: the initial load, explicit reloads and
// reloads triggered by SIGHUP or changes to the document.
type App struct {
	source      *source.Source
	storage     storage.Storage
	logger      *zap.Logger
	limiter     reloadLimiter
	subscribers []Subscriber
	watchFile   bool

	// reloadMu serialises reads of the document with commits to storage.
	reloadMu sync.Mutex
}

type appOptions struct {
	fs          afero.Fs
	storage     storage.Storage
	limiter     reloadLimiter
	subscribers []Subscriber
	watchFile   bool
}

// Option configures New.
type Option func(*appOptions)

// WithFs reads the document from fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *appOptions) {
		o.fs = fsys
	}
}

// WithStorage overrides the snapshot store.
func WithStorage(store storage.Storage) Option {
	return func(o *appOptions) {
		o.storage = store
	}
}

// WithSubscriber registers a host callback invoked after each successful (re)load.
func WithSubscriber(sub Subscriber) Option {
	return func(o *appOptions) {
		o.subscribers = append(o.subscribers, sub)
	}
}

// WithFileWatch enables reloading when the document changes on disk. It only
// works with the OS filesystem.
func WithFileWatch(enabled bool) Option {
	return func(o *appOptions) {
		o.watchFile = enabled
	}
}

func withLimiter(limiter reloadLimiter) Option {
	return func(o *appOptions) {
		o.limiter = limiter
	}
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg.Path == "" {
		return nil, errors.New("configuration path is required")
	}

	o := appOptions{
		fs:      afero.NewOsFs(),
		limiter: newTokenBucketLimiter(cfg.ReloadRPS, cfg.ReloadBurst),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.storage == nil {
		o.storage = storage.NewMemoryStorage()
	}

	return &App{
		source:      source.New(o.fs, cfg.Path, cfg.Strict),
		storage:     o.storage,
		logger:      logger,
		limiter:     o.limiter,
		subscribers: o.subscribers,
		watchFile:   o.watchFile,
	}, nil
}

// Load performs the initial load. Any validation problem is returned and nothing is committed.
func (a *App) Load() (storage.Snapshot, error) {
	return a.reload("startup")
}

// Reload re-reads the document, waiting for the reload limiter first. On failure the
// previously committed configuration stays in place.
func (a *App) Reload(ctx context.Context) (storage.Snapshot, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return storage.Snapshot{}, fmt.Errorf("wait for reload slot: %w", err)
	}
	return a.reload("request")
}

// Current returns the committed configuration.
func (a *App) Current() storage.Snapshot {
	return a.storage.Current()
}

func (a *App) reload(reason string) (storage.Snapshot, error) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	res, err := a.source.Load()
	if err != nil {
		fields := []zap.Field{
			zap.String("path", a.source.Path()),
			zap.String("reason", reason),
			zap.Strings("issues", issueStrings(err)),
		}
		a.logger.Warn("configuration rejected", fields...)
		return storage.Snapshot{}, err
	}

	if !res.Found {
		a.logger.Info("configuration document not found, using defaults", zap.String("path", res.Path))
	}
	if len(res.Config.Extra) > 0 {
		a.logger.Debug("unrecognized options passed through", zap.Int("count", len(res.Config.Extra)))
	}

	snap := a.storage.Replace(res.Config)
	a.logger.Info("configuration loaded",
		zap.String("path", res.Path),
		zap.String("reason", reason),
		zap.Uint64("revision", snap.Revision),
	)

	for _, sub := range a.subscribers {
		sub(snap.Config.Clone())
	}
	return snap, nil
}

// Run reloads on SIGHUP and, when enabled, on document changes until ctx is cancelled.
// Bursts of triggers collapse into a single pending reload.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make(chan string, 1)
	request := func(reason string) {
		select {
		case pending <- reason:
		default:
		}
	}

	hup := make(chan os.Signal, 1)
	signalNotify(hup, syscall.SIGHUP)
	defer signalStop(hup)

	watchErr := make(chan error, 1)
	if a.watchFile {
		w, err := newFileWatcher(a.source.Path(), a.logger)
		if err != nil {
			return err
		}
		go func() {
			watchErr <- w.run(ctx, request)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			if err != nil {
				return fmt.Errorf("file watcher stopped: %w", err)
			}
		case <-hup:
			request("signal")
		case reason := <-pending:
			if err := a.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Warn("reload throttled", zap.Error(err))
				continue
			}
			_, _ = a.reload(reason)
		}
	}
}

func issueStrings(err error) []string {
	issues := termconfig.Issues(err)
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Error())
	}
	return out
}
