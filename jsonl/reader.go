package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tweetsift "github.com/anatolykoptev/go-tweetsift"
)

// maxLineSize bounds a single line; full flattened tweets can be large.
const maxLineSize = 4 << 20

// recordLine is the part of a line every record needs; both keys must be present.
type recordLine struct {
	CreatedAt tweetsift.Timestamp `json:"created_at"`
	Text      *string             `json:"text"`
}

// Reader decodes Records from line-delimited JSON.
type Reader struct {
	sc   *bufio.Scanner
	line int

	// KeepRaw stores a copy of each source line in Record.Raw.
	KeepRaw bool
}

// NewReader reads lines from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next record, or io.EOF after the last one. Blank lines are
// skipped; a malformed line, or one without created_at or text, yields an
// error naming its line number.
func (r *Reader) Next() (tweetsift.Record, error) {
	for r.sc.Scan() {
		r.line++
		b := bytes.TrimSpace(r.sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var raw recordLine
		if err := json.Unmarshal(b, &raw); err != nil {
			return tweetsift.Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if raw.CreatedAt.IsZero() {
			return tweetsift.Record{}, fmt.Errorf("line %d: missing created_at", r.line)
		}
		if raw.Text == nil {
			return tweetsift.Record{}, fmt.Errorf("line %d: missing text", r.line)
		}
		rec := tweetsift.Record{CreatedAt: raw.CreatedAt, Text: *raw.Text}
		if r.KeepRaw {
			rec.Raw = bytes.Clone(b)
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return tweetsift.Record{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return tweetsift.Record{}, io.EOF
}

// Line returns the number of the line last read.
func (r *Reader) Line() int { return r.line }

// ReadAll reads every record in the file at path.
func ReadAll(path string) ([]tweetsift.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := NewReader(f)
	var out []tweetsift.Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, rec)
	}
}
