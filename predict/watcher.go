package predict

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"heartguard/logging"
	"heartguard/store"
)

// debounce window for bursts of artifact writes: training writes both
// files back to back, reload once after the last write settles.
const reloadDelay = 500 * time.Millisecond

// WatchArtifacts reloads the service whenever the model artifacts in
// dir are rewritten, so a freshly trained model is picked up without a
// restart. Blocks until ctx is done.
func WatchArtifacts(ctx context.Context, dir string, svc *Service) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()
	reload := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != store.ScalerFile && name != store.ModelFile {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(reloadDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := svc.ReloadFrom(dir); err != nil {
				logging.L().Warnf("model reload failed: %v", err)
				continue
			}
			logging.L().Infof("model artifacts reloaded from %s", dir)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.L().Warnf("artifact watcher: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
