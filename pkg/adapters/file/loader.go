package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zojize/exusiai-bot/internal/compiler"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

// debounce coalesces bursts of file events into one change signal.
const debounce = 200 * time.Millisecond

// Loader implements ports.CatalogLoader over a data directory.
// Every .yaml, .yml and .json file below the root is parsed and merged in
// lexical path order, so later files override earlier definitions.
type Loader struct {
	root   string
	parser *compiler.Parser
}

// NewLoader creates a loader for root, which may be a directory or a single file.
func NewLoader(root string) *Loader {
	return &Loader{root: root, parser: compiler.NewParser()}
}

// Root returns the configured path.
func (l *Loader) Root() string {
	return l.root
}

// Load reads, merges and validates every catalog document.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", l.root)
	}

	cat := &domain.Catalog{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := l.parseFile(path)
		if err != nil {
			return nil, err
		}
		cat.Merge(part)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", l.root, err)
	}
	return cat, nil
}

func (l *Loader) parseFile(path string) (*domain.Catalog, error) {
	format, _ := compiler.FormatFor(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	cat, err := l.parser.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func (l *Loader) files() ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to open data path: %w", err)
	}
	if !info.IsDir() {
		return []string{l.root}, nil
	}

	var files []string
	err = filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := compiler.FormatFor(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data path: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Watch implements ports.Watchable. The returned channel receives a value
// after catalog files under the root are written, created, removed or
// renamed. It is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dirs, err := l.watchDirs()
	if err == nil {
		for _, dir := range dirs {
			if err = watcher.Add(dir); err != nil {
				break
			}
		}
	}
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.root, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, catalog := compiler.FormatFor(ev.Name); !catalog {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					timer = time.After(debounce)
				}
			case <-timer:
				timer = nil
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}

func (l *Loader) watchDirs() ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Dir(l.root)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != l.root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
