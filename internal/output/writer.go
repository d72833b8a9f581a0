// Package output renders extraction results to a stream for inspection,
// separate from the append-only sinks.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/washwatch/washwatch/pkg/machine"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer serializes one extraction result.
type Writer interface {
	// Write outputs the records.
	Write(records []machine.Record) error

	// Close flushes buffered output.
	Close() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return &jsonWriter{w: bufio.NewWriter(w)}, nil
	case FormatJSONL:
		return &jsonlWriter{w: bufio.NewWriter(w)}, nil
	case FormatYAML:
		return &yamlWriter{w: bufio.NewWriter(w)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonWriter writes the records as one pretty-printed JSON array.
type jsonWriter struct {
	w *bufio.Writer
}

func (j *jsonWriter) Write(records []machine.Record) error {
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if _, err := j.w.Write(out); err != nil {
		return err
	}
	if _, err := j.w.WriteString("\n"); err != nil {
		return err
	}
	return nil
}

func (j *jsonWriter) Close() error { return j.w.Flush() }

// jsonlWriter writes newline-delimited JSON, one record per line.
type jsonlWriter struct {
	w *bufio.Writer
}

func (j *jsonlWriter) Write(records []machine.Record) error {
	enc := json.NewEncoder(j.w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func (j *jsonlWriter) Close() error { return j.w.Flush() }

// yamlWriter writes the records as a YAML sequence.
type yamlWriter struct {
	w *bufio.Writer
}

func (y *yamlWriter) Write(records []machine.Record) error {
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func (y *yamlWriter) Close() error { return y.w.Flush() }
