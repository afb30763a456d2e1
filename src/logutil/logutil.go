package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	logFileName  = "screen_zoom_debug.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup enables file logging with basic size-based rotation (10MB, max 3
// files) in the user cache directory. When disabled, logs are discarded:
// stdout carries only the monitor line.
func Setup(enableFileLogging bool) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return
	}
	w, err := Open(defaultDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(w)
}

func defaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "screen-zoom")
	}
	return "."
}

// RotatingWriter appends to a log file in dir and rotates it once it would
// exceed maxSize.
type RotatingWriter struct {
	dir     string
	maxSize int64
	f       *os.File
}

// Open creates dir if needed and opens the log file for appending.
func Open(dir string) (*RotatingWriter, error) {
	return open(dir, maxSizeBytes)
}

func open(dir string, maxSize int64) (*RotatingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &RotatingWriter{dir: dir, maxSize: maxSize}
	w.rotateIfNeeded()
	f, err := os.OpenFile(w.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w.f = f
	return w, nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size() > 0 && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.rotate()
		nf, err := os.OpenFile(w.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

// Close closes the current log file.
func (w *RotatingWriter) Close() error { return w.f.Close() }

func (w *RotatingWriter) path() string { return filepath.Join(w.dir, logFileName) }

func (w *RotatingWriter) archiveName(n int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s.%d", logFileName, n))
}

func (w *RotatingWriter) rotateIfNeeded() {
	if st, err := os.Stat(w.path()); err == nil && st.Size() >= w.maxSize {
		w.rotate()
	}
}

// rotate shifts .1 -> .2 -> .3 (oldest discarded) and moves the current
// file to .1.
func (w *RotatingWriter) rotate() {
	_ = os.Remove(w.archiveName(maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(w.archiveName(i), w.archiveName(i+1))
	}
	_ = os.Rename(w.path(), w.archiveName(1))
}
