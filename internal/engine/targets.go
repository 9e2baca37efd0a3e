package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ResolveTargets expands file, directory, and glob specifiers into a sorted
// list of target paths, deduplicated case-insensitively across all
// specifiers. filter, when non-empty, restricts files by base name in Go
// path.Match style. An empty result is legal.
func ResolveTargets(specifiers []string, recurse bool, filter string) ([]string, error) {
	seen := make(map[string]struct{})
	var targets []string

	add := func(p string) {
		key := strings.ToLower(filepath.Clean(p))
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		targets = append(targets, p)
	}

	matchesFilter := func(p string) bool {
		if filter == "" {
			return true
		}
		ok, err := path.Match(filter, filepath.Base(p))
		return err == nil && ok
	}

	for _, spec := range specifiers {
		info, err := os.Stat(spec)
		switch {
		case err == nil && info.IsDir():
			if err := enumerateDir(spec, recurse, matchesFilter, add); err != nil {
				return nil, err
			}
		case err == nil:
			if matchesFilter(spec) {
				add(spec)
			}
		default:
			// Not a plain path; treat the specifier as a glob pattern. A
			// pattern matching nothing contributes zero targets.
			matches, globErr := filepath.Glob(spec)
			if globErr != nil {
				return nil, fmt.Errorf("invalid target specifier %q: %w", spec, globErr)
			}
			for _, m := range matches {
				mi, statErr := os.Stat(m)
				if statErr != nil || mi.IsDir() {
					continue
				}
				if matchesFilter(m) {
					add(m)
				}
			}
		}
	}

	sort.Strings(targets)
	return targets, nil
}

func enumerateDir(dir string, recurse bool, matchesFilter func(string) bool, add func(string)) error {
	if recurse {
		walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && matchesFilter(p) {
				add(p)
			}
			return nil
		})
		if walkErr != nil {
			return fmt.Errorf("failed to enumerate %s: %w", dir, walkErr)
		}
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if matchesFilter(p) {
			add(p)
		}
	}
	return nil
}
