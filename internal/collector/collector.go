// Package collector accumulates filled fixtures per test and writes one
// indexed JSON document per test once its module has been filled.
package collector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"evmfill/internal/domain"
)

const indent = "    "

type entry struct {
	label   string
	payload json.RawMessage
	fork    string
	hash    string
}

// bucket holds the fixtures of one module path + base name, in record order.
type bucket struct {
	key     string
	entries []entry
}

// Collector accumulates fixtures in memory until Finalize.
//
// A Collector is owned by a single module runner and is not safe for
// concurrent use; separate modules use separate collectors.
type Collector struct {
	outputDir string
	buckets   map[string]*bucket
	order     []*bucket
}

// New creates a Collector writing under outputDir.
func New(outputDir string) *Collector {
	return &Collector{
		outputDir: outputDir,
		buckets:   make(map[string]*bucket),
	}
}

// Record appends a fixture to the bucket of its identity. The payload is
// snapshotted as JSON now; later changes to it are not seen. Recording the
// same identity twice keeps both entries.
func (c *Collector) Record(id domain.TestIdentity, fixture *domain.FilledFixture) error {
	if fixture == nil {
		return fmt.Errorf("record %s: nil fixture", id.Key())
	}
	payload, err := marshal(fixture.Payload)
	if err != nil {
		return fmt.Errorf("record %s[%s]: %w", id.Key(), id.FinalLabel(), err)
	}
	b, ok := c.buckets[id.Key()]
	if !ok {
		b = &bucket{key: id.Key()}
		c.buckets[id.Key()] = b
		c.order = append(c.order, b)
	}
	b.entries = append(b.entries, entry{
		label:   id.FinalLabel(),
		payload: payload,
		fork:    fixture.Fork,
		hash:    fixture.Hash,
	})
	return nil
}

// Len returns the number of recorded fixtures across all buckets.
func (c *Collector) Len() int {
	n := 0
	for _, b := range c.order {
		n += len(b.entries)
	}
	return n
}

// Finalize writes every bucket, in the order buckets were created, to
// <outputDir>/<module path>/<base name>.json, overwriting existing files.
// It can be called again and rewrites the same content. A failing bucket
// does not prevent the others from being written.
func (c *Collector) Finalize() ([]string, error) {
	var (
		written []string
		errs    []error
	)
	for _, b := range c.order {
		path := c.path(b)
		if err := writeBucket(path, b); err != nil {
			errs = append(errs, &domain.FillError{
				Class:   domain.ErrIO,
				Module:  b.key,
				Message: "could not write fixture file " + path,
				Cause:   err,
			})
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

// Entries lists the keys Finalize writes, in file order.
func (c *Collector) Entries() []domain.IndexEntry {
	var out []domain.IndexEntry
	for _, b := range c.order {
		file := filepath.ToSlash(b.key) + ".json"
		for i, e := range b.entries {
			out = append(out, domain.IndexEntry{
				File: file,
				Key:  indexedLabel(i, e.label),
				Fork: e.fork,
				Hash: e.hash,
			})
		}
	}
	return out
}

func (c *Collector) path(b *bucket) string {
	return filepath.Join(c.outputDir, filepath.FromSlash(b.key)+".json")
}

func indexedLabel(i int, label string) string {
	return fmt.Sprintf("%03d-%s", i, label)
}

func writeBucket(path string, b *bucket) error {
	data, err := encodeBucket(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// encodeBucket renders the bucket as a JSON object whose keys keep record
// order. encoding/json sorts map keys, so the object is assembled by hand.
func encodeBucket(b *bucket) ([]byte, error) {
	var buf bytes.Buffer
	if len(b.entries) == 0 {
		buf.WriteString("{}")
		return buf.Bytes(), nil
	}
	buf.WriteString("{\n")
	for i, e := range b.entries {
		key, err := marshal(indexedLabel(i, e.label))
		if err != nil {
			return nil, err
		}
		buf.WriteString(indent)
		buf.Write(key)
		buf.WriteString(": ")
		if err := json.Indent(&buf, e.payload, indent, indent); err != nil {
			return nil, fmt.Errorf("indent %s: %w", key, err)
		}
		if i < len(b.entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
