package workflow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover expands paths into batch inputs. Directories are walked
// recursively and filtered by extension, skipping hidden entries; files named
// explicitly are taken as given. The result is sorted and free of duplicates.
func Discover(paths []string, extensions []string) ([]Input, error) {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	seen := make(map[string]struct{})
	var sources []string
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		sources = append(sources, abs)
	}

	for _, root := range paths {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	slices.Sort(sources)
	inputs := make([]Input, len(sources))
	for i, source := range sources {
		inputs[i] = Input{Source: source}
	}
	return inputs, nil
}

// SidecarTranscript returns the transcript stored next to source as
// <name>.txt, or "" when there is none.
func SidecarTranscript(source string) string {
	ext := filepath.Ext(source)
	if strings.EqualFold(ext, extTXT) {
		return ""
	}
	candidate := strings.TrimSuffix(source, ext) + extTXT
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return ""
	}
	return candidate
}
