package meta

import (
	"strings"
	"testing"
)

func capture(t *testing.T, f func()) string {
	t.Helper()
	var b strings.Builder
	saved := checkWriter
	checkWriter = &b
	defer func() { checkWriter = saved }()
	f()
	return b.String()
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		tool     string
		compile  string
		warnings int
	}{
		// Same major.minor everywhere: silent.
		{tool: "4.13.0", compile: "4.13.1", warnings: 0},
		// Patch and suffix differences are benign.
		{tool: "4.13.2", compile: "4.13.1-SNAPSHOT", warnings: 0},
		// A stale tool warns once.
		{tool: "4.12.0", compile: "4.13.1", warnings: 1},
		// A stale compile-time runtime warns once.
		{tool: "4.13.0", compile: "4.11.0", warnings: 1},
		// Both stale: one line each.
		{tool: "3.5.2", compile: "4.12.0", warnings: 2},
		// Garbage cannot be vouched for.
		{tool: "not-a-version", compile: "4.13.1", warnings: 1},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.compile, func(t *testing.T) {
			out := capture(t, func() {
				CheckVersion(tt.tool, tt.compile)
			})
			lines := 0
			for _, l := range strings.Split(out, "\n") {
				if strings.TrimSpace(l) != "" {
					lines++
				}
			}
			if lines != tt.warnings {
				t.Fatalf("unexpected warning count; want: %v, got: %v (%q)", tt.warnings, lines, out)
			}
			if tt.warnings > 0 && !strings.Contains(out, "does not match the runtime version") {
				t.Fatalf("unexpected warning text: %q", out)
			}
		})
	}
}
