package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/zen-systems/taskgate/pkg/router"
)

// WatchThresholds watches a config file for changes and pushes the
// thresholds block through apply whenever the file is rewritten. It
// returns a stop function. Reload errors are logged, never fatal.
func WatchThresholds(path string, apply func(router.Thresholds) error, log logrus.FieldLogger) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				fileConfig := loadFileConfig(target)
				if fileConfig.Thresholds == nil {
					continue
				}
				if err := apply(*fileConfig.Thresholds); err != nil {
					log.WithError(err).Warn("rejected threshold reload")
					continue
				}
				log.WithFields(logrus.Fields{
					"simple":  fileConfig.Thresholds.Simple,
					"medium":  fileConfig.Thresholds.Medium,
					"complex": fileConfig.Thresholds.Complex,
				}).Info("reloaded thresholds")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
