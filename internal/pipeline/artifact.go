package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONLWriter streams records into a JSON-lines artifact. Records go to a
// temp file; Commit renames it into place so a half-written artifact is
// never observed as newer than its inputs.
type JSONLWriter struct {
	path string
	tmp  *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
	n    int
}

// NewJSONLWriter opens a temp file next to path.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return nil, fmt.Errorf("temp artifact: %w", err)
	}
	buf := bufio.NewWriter(tmp)
	return &JSONLWriter{path: path, tmp: tmp, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// Write appends one record.
func (w *JSONLWriter) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *JSONLWriter) Count() int { return w.n }

// Commit flushes and renames the artifact into place.
func (w *JSONLWriter) Commit() error {
	if err := w.buf.Flush(); err != nil {
		w.Abort()
		return fmt.Errorf("flush artifact: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Abort discards the temp file; the prior artifact, if any, stays intact.
func (w *JSONLWriter) Abort() {
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}

// WriteJSONL writes all items as one artifact with write-then-rename
// semantics.
func WriteJSONL[T any](path string, items []T) error {
	w, err := NewJSONLWriter(path)
	if err != nil {
		return err
	}
	for i := range items {
		if err := w.Write(items[i]); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Commit()
}

// ReadJSONL loads a whole JSON-lines artifact.
func ReadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return out, nil
}

// WriteTextFile writes a text artifact atomically.
func WriteTextFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
