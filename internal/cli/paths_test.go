package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, spec, format string
		n                    int
		want                 string
	}{
		{"", "charts/pop.toml", "html", 1, "charts/pop.html"},
		{"", "pop.yaml", "json", 2, "pop.json"},
		{"out/figure.html", "pop.toml", "html", 1, "out/figure.html"},
		{"out/figure.html", "pop.toml", "json", 2, "out/figure.json"},
		{"out/figure", "pop.toml", "json", 2, "out/figure.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.spec, tt.format, tt.n); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.spec, tt.format, tt.n, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("parseFormats(\"\") = %v, want nil", got)
	}
	got := parseFormats("json,html")
	if len(got) != 2 || got[0] != "json" || got[1] != "html" {
		t.Errorf("parseFormats = %v", got)
	}
}
