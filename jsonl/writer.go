// Package jsonl reads and writes line-delimited JSON files: one independent
// JSON object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// runStampLayout renders the collection time as MM-DD-YYYY_HH;MM;SS.
const runStampLayout = "01-02-2006_15;04;05"

// OutputPath returns <dir>/<prefix>_<MM-DD-YYYY_HH;MM;SS>.txt for a run started at t.
func OutputPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", prefix, t.Format(runStampLayout)))
}

// Writer appends JSON lines to a file opened in truncate-or-create mode.
// Every Write is flushed to the file before it returns; a crash leaves the
// lines written so far.
type Writer struct {
	f     *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	path  string
	count int
}

// Create truncates or creates path, creating parent directories as needed.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{f: f, buf: buf, enc: enc, path: path}, nil
}

// Write encodes v as one line and flushes it.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("encode line %d: %w", w.count+1, err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	w.count++
	return nil
}

// Count returns the number of lines written.
func (w *Writer) Count() int { return w.count }

// Path returns the file path.
func (w *Writer) Path() string { return w.path }

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
