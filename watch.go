package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/massung/chip8vm/logger"
)

/// Debounce is how long the file must be quiet before it is reloaded.
/// Editors often write a file in several steps.
///
const Debounce = 100 * time.Millisecond

/// Watch the program file and hand the new ROM to swap every time the file
/// changes. Sources are re-assembled; a failed build is logged and the
/// running program is left alone. Watching stops when ctx is done.
///
func Watch(ctx context.Context, file string, swap func(rom []byte)) error {
	file = filepath.Clean(file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// editors replace files, so watch the directory
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var reload <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-watcher.Event:
				if filepath.Clean(ev.Name) == file && !ev.IsAttrib() && !ev.IsDelete() {
					reload = time.After(Debounce)
				}
			case err := <-watcher.Error:
				logger.Logf("watch", "watcher: %v", err)
			case <-reload:
				reload = nil

				rom, err := ReadROM(file)
				if err != nil {
					logger.Logf("watch", "%v", err)
					break
				}

				logger.Logf("watch", "reloading %s", filepath.Base(file))
				swap(rom)
			}
		}
	}()

	return nil
}
