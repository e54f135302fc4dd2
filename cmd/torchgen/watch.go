package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// watchFile calls onChange after path changes, until ctx is done. The parent
// directory is watched because editors often replace a file by renaming a new
// one over it. Bursts of events within debounce trigger one call.
func watchFile(ctx context.Context, path string, debounce time.Duration, log logrus.FieldLogger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	log.WithField("settings", path).Info("watching for changes")

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-timerC:
			timerC = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WithError(err).Warn("watcher error")

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !triggersRegeneration(evt, target) {
				continue
			}

			log.WithField("event", evt.Op.String()).Debug("settings changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Stop()
				timer.Reset(debounce)
			}

			timerC = timer.C
		}
	}
}

func triggersRegeneration(evt fsnotify.Event, target string) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}

	name, err := filepath.Abs(evt.Name)
	if err != nil {
		return false
	}

	return name == target
}
