package ranker

import (
	"io"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DirWatcher signals changes to the .html files of a corpus directory. It
// implements ChangeNotifier.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	logger  *logrus.Entry

	closeOnce sync.Once
}

// NewDirWatcher starts watching dir for changes. If logger is nil, watch
// errors are discarded.
func NewDirWatcher(dir string, logger *logrus.Entry) (*DirWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, xerrors.Errorf("create watcher: %w", err)
	}
	if err = fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, xerrors.Errorf("watch %q: %w", dir, err)
	}
	if logger == nil {
		logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	w := &DirWatcher{
		watcher: fw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go w.loop()
	return w, nil
}

// Changes implements ChangeNotifier. Bursts of file events are coalesced
// into a single pending signal.
func (w *DirWatcher) Changes() <-chan struct{} { return w.changes }

// Close stops watching the directory.
func (w *DirWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *DirWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.notify()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithField("err", err).Warn("corpus watcher error")
		}
	}
}

func (w *DirWatcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
