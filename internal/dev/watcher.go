package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeGo ChangeType = iota
	ChangeAsset
)

func (t ChangeType) String() string {
	if t == ChangeGo {
		return "go"
	}
	return "asset"
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore lists directory or file names and globs to skip.
	Ignore []string

	// Debounce is the quiet period before changes are reported.
	Debounce time.Duration

	// Logger receives watch errors. Default: discard.
	Logger *slog.Logger
}

// DefaultIgnore contains names that never trigger a rebuild.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"*_test.go",
	"zz_*_gen.go",
	"*.swp",
	"*~",
}

// Watcher reports file changes under a set of directories.
type Watcher struct {
	config   WatcherConfig
	mu       sync.Mutex
	onChange func(Change)
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{config: config}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until ctx is cancelled. Changes arriving within the
// debounce window are coalesced and reported once per change type.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, root := range w.config.Paths {
		w.addTree(fw, root)
	}

	var (
		pending = make(map[ChangeType]Change)
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(fw, ev.Name)
					continue
				}
			}
			change := Change{Path: ev.Name, Type: classifyChange(ev.Name)}
			if _, seen := pending[change.Type]; !seen {
				pending[change.Type] = change
			}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			w.mu.Lock()
			callback := w.onChange
			w.mu.Unlock()
			for _, t := range []ChangeType{ChangeGo, ChangeAsset} {
				if change, ok := pending[t]; ok && callback != nil {
					callback(change)
				}
			}
			clear(pending)
		}
	}
}

// addTree watches root and every directory beneath it that is not ignored.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			w.config.Logger.Warn("cannot watch directory", "path", p, "error", err)
		}
		return nil
	})
}

// shouldIgnore matches the base name of path, and each of its directory
// segments, against the ignore list.
func (w *Watcher) shouldIgnore(path string) bool {
	name := filepath.Base(path)
	segments := strings.Split(filepath.ToSlash(path), "/")

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}

// classifyChange determines the type of change based on file extension.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	// .js covers files embedded into the module.
	case ".go", ".mod", ".sum", ".js":
		return ChangeGo
	default:
		return ChangeAsset
	}
}
