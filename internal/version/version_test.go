package version

import (
	"runtime/debug"
	"testing"
)

func TestFormat(t *testing.T) {
	none := func() (*debug.BuildInfo, bool) { return nil, false }
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		}}, true
	}
	tests := []struct {
		name    string
		v, c, d string
		info    func() (*debug.BuildInfo, bool)
		want    string
	}{
		{"bare", "dev", "", "", none, "dev"},
		{"ldflags", "1.2.0", "abc123", "2025-01-01", stamped, "1.2.0 (abc123) 2025-01-01"},
		{"commit only", "1.2.0", "abc123", "", none, "1.2.0 (abc123)"},
		{"vcs stamp", "dev", "", "", stamped, "dev (0123456789ab) 2025-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		if got := format(tt.v, tt.c, tt.d, tt.info); got != tt.want {
			t.Errorf("%s: format() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
