package asset

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Progress is called while a file of a model is read. total is negative
// if the size of the file is not known.
type Progress func(name string, loaded, total int64)

// trackedFS reports reads to a Progress and stops reading once the
// context is done.
type trackedFS struct {
	fs.FS
	ctx      context.Context
	progress Progress
}

func (t *trackedFS) Open(name string) (fs.File, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	var fp fs.File
	var err error

	if cfs, ok := t.FS.(contextFS); ok {
		fp, err = cfs.OpenContext(t.ctx, name)
	} else {
		fp, err = t.FS.Open(name)
	}

	if err != nil {
		return nil, err
	}

	total := int64(-1)
	if stat, err := fp.Stat(); err == nil && !stat.IsDir() {
		total = stat.Size()
	}

	return &trackedFile{File: fp, fs: t, name: name, total: total}, nil
}

type trackedFile struct {
	fs.File
	fs *trackedFS

	name   string
	loaded int64
	total  int64
}

func (f *trackedFile) Read(buf []byte) (int, error) {
	if err := f.fs.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := f.File.Read(buf)
	f.loaded += int64(n)

	if f.fs.progress != nil && (n > 0 || err == io.EOF) {
		f.fs.progress(f.name, f.loaded, f.total)
	}

	return n, err
}

// DefaultProgress shows a progress bar if stderr is a terminal and logs
// the progress otherwise.
func DefaultProgress() Progress {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return ProgressBar()
	}

	return LogProgress()
}

// ProgressBar renders one progress bar per file.
func ProgressBar() Progress {
	var mu sync.Mutex
	bars := map[string]*progressbar.ProgressBar{}

	return func(name string, loaded, total int64) {
		mu.Lock()
		defer mu.Unlock()

		bar, ok := bars[name]
		if !ok {
			bar = progressbar.DefaultBytes(total, "load "+name)
			bars[name] = bar
		}

		_ = bar.Set64(loaded)

		if total >= 0 && loaded >= total {
			_ = bar.Close()
		}
	}
}

// LogProgress logs the percentage of each file that was loaded, at most
// once per ten percent.
func LogProgress() Progress {
	var mu sync.Mutex
	reported := map[string]int64{}

	return func(name string, loaded, total int64) {
		if total <= 0 {
			return
		}

		percent := min(loaded*100/total, 100)

		mu.Lock()
		defer mu.Unlock()

		last, ok := reported[name]
		if ok && percent < 100 && percent-last < 10 {
			return
		}

		if ok && percent == last {
			return
		}

		reported[name] = percent

		slog.Info("Loading model",
			slog.String("file", name),
			slog.Int64("percent", percent),
			slog.Int64("loaded", loaded),
			slog.Int64("total", total),
		)
	}
}
