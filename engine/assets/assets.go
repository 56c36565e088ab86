package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/screenwipe/engine/core"
)

// LumpFileExtension marks loose lump files inside a lump directory.
const LumpFileExtension = ".lmp"

type lumpInfo struct {
	Path string
	Size int64
}

/**
 * @brief A lump store backed by loose `NAME.lmp` files under a directory tree.
 * When watching, files created, rewritten or removed on disk are picked
 * up without restarting, and their names are reported on Changes().
 */
type DirectoryStore struct {
	root  string
	lumps map[string]lumpInfo

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
}

func NewDirectoryStore(root string, watch bool) (*DirectoryStore, error) {
	ds := &DirectoryStore{
		root:    root,
		lumps:   make(map[string]lumpInfo),
		changes: make(chan string, 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		ds.fsnotify = fsWatch
	}

	if err := ds.watchRecursive(root, false); err != nil {
		if ds.fsnotify != nil {
			ds.fsnotify.Close()
		}
		return nil, err
	}

	if ds.fsnotify != nil {
		go ds.start()
	} else {
		close(ds.stopped)
	}

	core.LogInfo("lump directory '%s' indexed with %d lumps (watch=%t)", root, ds.Count(), watch)
	return ds, nil
}

func (ds *DirectoryStore) Exists(name string) bool {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()
	_, ok := ds.lumps[NormalizeLumpName(name)]
	return ok
}

func (ds *DirectoryStore) Length(name string) int {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()
	info, ok := ds.lumps[NormalizeLumpName(name)]
	if !ok {
		return -1
	}
	return int(info.Size)
}

func (ds *DirectoryStore) Read(name string) ([]byte, error) {
	name = NormalizeLumpName(name)
	ds.mutex.RLock()
	info, ok := ds.lumps[name]
	ds.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("directory read '%s': %w", name, core.ErrLumpNotFound)
	}
	return os.ReadFile(info.Path)
}

func (ds *DirectoryStore) Count() int {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()
	return len(ds.lumps)
}

// Changes reports the names of lumps touched on disk. Sends never block; a full channel drops names.
func (ds *DirectoryStore) Changes() <-chan string {
	return ds.changes
}

func (ds *DirectoryStore) Close() error {
	ds.mutex.Lock()
	if ds.isClosed {
		ds.mutex.Unlock()
		return core.ErrStoreClosed
	}
	ds.isClosed = true
	ds.mutex.Unlock()

	if ds.fsnotify == nil {
		return nil
	}
	close(ds.done)
	<-ds.stopped
	return nil
}

func (ds *DirectoryStore) start() {
	defer close(ds.stopped)
	for {
		select {
		case e, ok := <-ds.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := ds.watchRecursive(e.Name, true); err != nil {
						core.LogWarn("failed to watch new directory '%s': %s", e.Name, err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				ds.handleFileEvent(e.Name, true)
			}
			// Can't stat a deleted file, so drop it from the index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				ds.removeLump(e.Name)
				_ = ds.fsnotify.Remove(e.Name)
			}

		case err, ok := <-ds.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-ds.done:
			ds.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every lump file under path and, when watching, adds each directory to the watch list.
func (ds *DirectoryStore) watchRecursive(path string, notify bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if ds.fsnotify == nil {
				return nil
			}
			return ds.fsnotify.Add(walkPath)
		}
		ds.handleFileEvent(walkPath, notify)
		return nil
	})
}

// Handle the creation or modification of a file
func (ds *DirectoryStore) handleFileEvent(path string, notify bool) {
	name, ok := lumpNameFromPath(path)
	if !ok {
		return
	}
	fi, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			core.LogWarn("failed to stat lump file '%s': %s", path, err.Error())
		}
		return
	}

	ds.mutex.Lock()
	ds.lumps[name] = lumpInfo{
		Path: path,
		Size: fi.Size(),
	}
	ds.mutex.Unlock()

	if notify {
		ds.notify(name)
	}
}

// Remove the lump from the index if its file was deleted
func (ds *DirectoryStore) removeLump(path string) {
	name, ok := lumpNameFromPath(path)
	if !ok {
		return
	}
	ds.mutex.Lock()
	info, exists := ds.lumps[name]
	if exists && info.Path == path {
		delete(ds.lumps, name)
	}
	ds.mutex.Unlock()

	if exists {
		ds.notify(name)
	}
}

func (ds *DirectoryStore) notify(name string) {
	select {
	case ds.changes <- name:
	default:
	}
}

func lumpNameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, LumpFileExtension) {
		return "", false
	}
	name := NormalizeLumpName(strings.TrimSuffix(base, ext))
	if validateLumpName(name) != nil {
		return "", false
	}
	return name, true
}

// SaveLumpFiles writes each lump as NAME.lmp under dir.
func SaveLumpFiles(dir string, lumps []Lump) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, l := range lumps {
		name := NormalizeLumpName(l.Name)
		if err := validateLumpName(name); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name+LumpFileExtension), l.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
