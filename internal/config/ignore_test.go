package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestIgnoreList_Match(t *testing.T) {
	l := NewIgnoreList("generated.py", "*.min.js", "vendor/", "docs/*.md")

	tests := []struct {
		path string
		want bool
	}{
		{"generated.py", true},
		{"./generated.py", true},
		{"src/generated.py", false},
		{"app.min.js", true},
		{"lib/app.min.js", false}, // glob does not cross separators
		{"vendor/pkg/x.js", true},
		{"./vendor/x.js", true},
		{"vendored/x.js", false},
		{"docs/readme.md", true},
		{"src/app.py", false},
	}
	for _, tt := range tests {
		if got := l.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIgnoreList_Empty(t *testing.T) {
	l := NewIgnoreList()
	if l.Match("anything.py") {
		t.Error("empty list matched")
	}
}

func TestParseIgnore_SkipsCommentsAndBlanks(t *testing.T) {
	lines, err := ParseIgnore(strings.NewReader("# comment\n\n  vendor/  \n*.lock\n"))
	if err != nil {
		t.Fatal(err)
	}
	l := NewIgnoreList(lines...)
	if !reflect.DeepEqual(l.Patterns(), []string{"vendor/", "*.lock"}) {
		t.Errorf("patterns = %v", l.Patterns())
	}
}

func TestLoadIgnore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".autoreview-ignore")
	if err := os.WriteFile(path, []byte("build/\n# skip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadIgnore(path, []string{"*.gen.ts"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l.Patterns(), []string{"build/", "*.gen.ts"}) {
		t.Errorf("patterns = %v", l.Patterns())
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

func TestLoadIgnore_MissingFile(t *testing.T) {
	l, err := LoadIgnore(filepath.Join(t.TempDir(), "none"), []string{"x/"})
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if !reflect.DeepEqual(l.Patterns(), []string{"x/"}) {
		t.Errorf("patterns = %v", l.Patterns())
	}
}
