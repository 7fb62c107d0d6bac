package main

import (
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fsChangeMsg is sent when the station database changes on disk.
type fsChangeMsg struct{}

// debounceWindow coalesces the burst of WAL writes a single transaction
// produces into one refresh.
const debounceWindow = 250 * time.Millisecond

// watchStationDir returns a tea.Cmd that waits for a change to the station
// database directory. Returns nil when the directory cannot be watched; the
// dashboard falls back to tick-based polling only.
func watchStationDir(dir string) tea.Cmd {
	watcher := initWatcher(dir)
	if watcher == nil {
		return nil
	}
	return runWatcher(watcher)
}

// initWatcher creates a watcher on the database directory. Returns nil when
// setup fails; failure only downgrades refresh latency.
func initWatcher(dir string) *fsnotify.Watcher {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("fsnotify: failed to create watcher: %v (falling back to polling)", err)
		return nil
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		log.Printf("fsnotify: failed to watch %s: %v (falling back to polling)", dir, err)
		return nil
	}
	return watcher
}

// runWatcher blocks until a relevant database write lands, debounces the
// burst, then emits one fsChangeMsg. The watcher is closed before returning;
// Update re-arms a fresh one.
func runWatcher(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !isDBEvent(ev) {
					continue
				}
				// Drain the write burst before reporting.
				timer := time.NewTimer(debounceWindow)
				for {
					select {
					case <-watcher.Events:
						continue
					case <-timer.C:
					}
					break
				}
				return fsChangeMsg{}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("fsnotify: watch error: %v", err)
			}
		}
	}
}

// isDBEvent reports whether the event touches the station database files.
func isDBEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return strings.Contains(ev.Name, "station.db")
}
