package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleWindow is how long a file must stay quiet before its edit is
// reported. Editors often write a file several times per save.
const settleWindow = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeTuning
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	}
	return "none"
}

// Change names an edited prefab file.
type Change struct {
	Path string
	Kind ChangeKind
}

// Name is the file name without its directory.
func (c Change) Name() string { return filepath.Base(c.Path) }

// Classify reports what kind of prefab lives at path.
func Classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeTuning
	case ".tengo":
		return ChangeScript
	}
	return ChangeNone
}

// Watcher reports prefab edits once each file has settled.
type Watcher struct {
	Changes chan Change
	Errors  chan error

	fs   *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		fs:      fsw,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	tick := time.NewTicker(settleWindow / 2)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if Classify(ev.Name) == ChangeNone {
				continue
			}
			pending[ev.Name] = time.Now()

		case now := <-tick.C:
			if !w.flush(pending, now) {
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-w.stop:
			return
		}
	}
}

// flush reports every pending path that has been quiet for settleWindow.
// It returns false once the watcher is stopping.
func (w *Watcher) flush(pending map[string]time.Time, now time.Time) bool {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= settleWindow {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		delete(pending, path)
		select {
		case w.Changes <- Change{Path: path, Kind: Classify(path)}:
		case <-w.stop:
			return false
		}
	}
	return true
}
