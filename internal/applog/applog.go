// Package applog provides the archiver's process-wide zerolog logger:
// console output plus a daily-rotating file under the app data directory,
// both fed through a non-blocking async writer so log calls from the
// collector's network goroutines never stall on file I/O.
package applog

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sskys18/telegram-korean-search/internal/appdir"
)

type asyncWriter struct {
	ch     chan []byte
	writer io.Writer
}

func newAsyncWriter(w io.Writer, bufSize int) *asyncWriter {
	aw := &asyncWriter{ch: make(chan []byte, bufSize), writer: w}
	go aw.drain()
	return aw
}

func (aw *asyncWriter) drain() {
	for p := range aw.ch {
		aw.writer.Write(p) //nolint:errcheck
	}
}

func (aw *asyncWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	select {
	case aw.ch <- buf:
	default:
		// drop the entry rather than block the caller
	}
	return len(p), nil
}

var (
	once sync.Once
	log  zerolog.Logger
)

// Level reads ARCHIVER_LOG_LEVEL (a zerolog level name such as "debug",
// parsed by zerolog.ParseLevel), defaulting to Info when unset or
// unparseable.
func Level() zerolog.Level {
	raw := os.Getenv("ARCHIVER_LOG_LEVEL")
	if raw == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Get returns the process-wide logger, building it on first call.
func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		var out io.Writer = console

		if dataHome, err := appdir.DataHome(); err == nil {
			if fw, err := newDailyRotatingLogWriter(dataHome); err == nil {
				out = zerolog.MultiLevelWriter(console, fw)
			}
		}

		log = zerolog.New(newAsyncWriter(out, 1024)).
			Level(Level()).
			With().
			Timestamp().
			Logger()
	})
	return log
}

const (
	logFilePrefix   = "archiver-"
	logFileSuffix   = ".log"
	maxLogFileCount = 7
)

type dailyRotatingLogWriter struct {
	mu          sync.Mutex
	dir         string
	currentDate string
	file        *os.File
}

func newDailyRotatingLogWriter(dir string) (*dailyRotatingLogWriter, error) {
	w := &dailyRotatingLogWriter{dir: dir}
	if err := w.rotateIfNeeded(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *dailyRotatingLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rotateIfNeeded(); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

func (w *dailyRotatingLogWriter) rotateIfNeeded() error {
	today := time.Now().Format("2006-01-02")
	if w.currentDate == today && w.file != nil {
		return nil
	}
	if w.file != nil {
		w.file.Close()
	}

	name := logFilePrefix + today + logFileSuffix
	file, err := os.OpenFile(filepath.Join(w.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = file
	w.currentDate = today
	cleanupOldLogFiles(w.dir)
	return nil
}

func (w *dailyRotatingLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

var _ io.WriteCloser = (*dailyRotatingLogWriter)(nil)

func cleanupOldLogFiles(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, logFilePrefix) && strings.HasSuffix(name, logFileSuffix) {
			logFiles = append(logFiles, name)
		}
	}
	if len(logFiles) <= maxLogFileCount {
		return
	}
	sort.Strings(logFiles)
	for i := 0; i < len(logFiles)-maxLogFileCount; i++ {
		os.Remove(filepath.Join(dir, logFiles[i]))
	}
}
