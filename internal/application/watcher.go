package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// fileWatcher reports changes to a single document. It watches the parent
// directory so editors that save by rename are still observed.
type fileWatcher struct {
	fsw    *fsnotify.Watcher
	path   string
	logger *zap.Logger
}

func newFileWatcher(path string, logger *zap.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &fileWatcher{fsw: fsw, path: abs, logger: logger}, nil
}

// run forwards relevant events to notify until ctx is cancelled.
func (w *fileWatcher) run(ctx context.Context, notify func(reason string)) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close file watcher", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("fsnotify event channel closed unexpectedly")
			}
			if filepath.Clean(evt.Name) != w.path || evt.Op&relevantOps == 0 {
				continue
			}
			w.logger.Debug("configuration file changed", zap.String("path", evt.Name), zap.Stringer("op", evt.Op))
			notify("file " + evt.Op.String())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed unexpectedly")
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}
