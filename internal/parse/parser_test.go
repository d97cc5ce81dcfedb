package parse

import (
	"encoding/json"
	"testing"
)

func TestParseObject(t *testing.T) {
	r, ok := Parse(`{"timestamp":"2025-01-01T12:00:00Z","level":"info","message":"ok","n":12345678901234567890}` + "\n")
	if !ok {
		t.Fatalf("expected record")
	}
	if r.Message() != "ok" {
		t.Fatalf("message: %s", r.Message())
	}
	if n, _ := r.Fields["n"].(json.Number); n.String() != "12345678901234567890" {
		t.Fatalf("number not preserved: %#v", r.Fields["n"])
	}
}

func TestParseRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"not json",
		`[1,2,3]`,
		`"just a string"`,
		`42`,
		`null`,
		`{"a":1`,
		`{"a":1} {"b":2}`,
		`{"a":1} trailing`,
	} {
		if _, ok := Parse(line); ok {
			t.Errorf("Parse(%q) accepted, want rejected", line)
		}
	}
}

func TestParseCRLF(t *testing.T) {
	if _, ok := Parse("{\"message\":\"x\"}\r\n"); !ok {
		t.Fatalf("CRLF line rejected")
	}
	if _, ok := Decode([]byte("{\"message\":\"x\"}\r\n")); !ok {
		t.Fatalf("Decode rejected CRLF line")
	}
}

func TestParseKeepsRaw(t *testing.T) {
	r, ok := Parse("  {\"z\":1,\"a\":1.50}\r\n")
	if !ok {
		t.Fatalf("expected record")
	}
	if r.Raw != `{"z":1,"a":1.50}` {
		t.Fatalf("Raw = %q", r.Raw)
	}
}
