package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreList excludes paths from review. A path is ignored when it equals a
// pattern, matches it as a filepath.Match glob, or lies under a pattern
// ending in "/".
type IgnoreList struct {
	patterns []string
}

// NewIgnoreList builds a list from patterns, skipping blanks and comments.
func NewIgnoreList(patterns ...string) *IgnoreList {
	l := &IgnoreList{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		l.patterns = append(l.patterns, p)
	}
	return l
}

// ParseIgnore reads one pattern per line.
func ParseIgnore(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadIgnore reads the ignore file at path and appends extra. A missing
// file yields a list of just extra.
func LoadIgnore(path string, extra []string) (*IgnoreList, error) {
	var lines []string
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		lines, err = ParseIgnore(f)
		if err != nil {
			return nil, fmt.Errorf("read ignore file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	return NewIgnoreList(append(lines, extra...)...), nil
}

// Patterns returns the active patterns.
func (l *IgnoreList) Patterns() []string {
	return append([]string(nil), l.patterns...)
}

// Len returns the number of patterns.
func (l *IgnoreList) Len() int { return len(l.patterns) }

// Match reports whether path is ignored. A leading "./" is stripped first.
func (l *IgnoreList) Match(path string) bool {
	path = strings.TrimPrefix(path, "./")
	for _, pattern := range l.patterns {
		if path == pattern {
			return true
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if dir, ok := strings.CutSuffix(pattern, "/"); ok && strings.HasPrefix(path, dir+"/") {
			return true
		}
	}
	return false
}
