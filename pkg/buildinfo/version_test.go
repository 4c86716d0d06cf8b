package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "dev", "none", "unknown"
	fillFrom(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	})
	if Version != "v0.3.1" || Commit != "abc123" || Date != "2025-01-02T03:04:05Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}

	Version = "v9.9.9"
	fillFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "v9.9.9" {
		t.Errorf("ldflags version overwritten: %s", Version)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}} version") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: ") {
		t.Errorf("String() = %q", String())
	}
}
