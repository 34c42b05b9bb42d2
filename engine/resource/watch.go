package resource

import (
	"errors"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// changeQueueSize bounds the number of undrained change events. Editors emit several events
// per save, and PollChanges collapses them, so overflow only drops duplicates.
const changeQueueSize = 256

func (c *cache) Watch(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		c.watcher = w
		c.changes = make(chan string, changeQueueSize)
		c.done = make(chan struct{})
		go c.watchLoop(w, c.changes, c.done)
	}

	if err := c.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("[Resource] watching %s", dir)
	return nil
}

// watchLoop only forwards events; invalidation happens on the frame goroutine in PollChanges.
func (c *cache) watchLoop(w *fsnotify.Watcher, changes chan<- string, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case changes <- normalizePath(event.Name):
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[Resource] watcher: %v", err)
		}
	}
}

func (c *cache) PollChanges() []string {
	c.mu.RLock()
	changes := c.changes
	c.mu.RUnlock()
	if changes == nil {
		return nil
	}

	var paths []string
	seen := make(map[string]bool)
	for {
		select {
		case path := <-changes:
			if seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		default:
			for _, path := range paths {
				if n := c.Invalidate(path); n > 0 {
					log.Printf("[Resource] %s changed, dropped %d cached entries", path, n)
				}
			}
			return paths
		}
	}
}

func (c *cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		return nil
	}
	close(c.done)
	err := c.watcher.Close()
	c.watcher = nil
	c.done = nil
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return err
	}
	return nil
}
