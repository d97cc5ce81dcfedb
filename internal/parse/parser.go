package parse

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"logview/internal/model"
)

// Parse decodes one line into a record and keeps its text as Raw. Only a single JSON object is a
// record; anything else reports false and must be discarded by the caller.
func Parse(line string) (model.Record, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return model.Record{}, false
	}
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return model.Record{}, false
	}
	// Trailing data after the object means the line is not one record.
	if _, err := dec.Token(); err != io.EOF {
		return model.Record{}, false
	}
	return model.Record{Raw: strings.TrimSpace(line), Fields: m}, true
}

// Decode is Parse for raw bytes.
func Decode(b []byte) (model.Record, bool) {
	return Parse(string(bytes.TrimRight(b, "\r\n")))
}
