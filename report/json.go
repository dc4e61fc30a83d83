package report

import (
	"encoding/json"
	"io"
)

// JSONWriter renders reports as an indented JSON document.
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter creates a JSONWriter that outputs to out.
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

// Write implements Writer.
func (w *JSONWriter) Write(r *Report) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
