package metadata

import (
	"path/filepath"
	"sort"
	"strings"
)

// Vocabulary holds the terms used to derive instrument metadata from file
// and folder names.
type Vocabulary struct {
	// Creators are known library producers. A path part containing one of
	// these names wins over the configured fallback creator.
	Creators []string

	// Categories maps a category name to the terms that select it.
	Categories map[string][]string

	// Keywords are free form tags collected from matching path parts.
	Keywords []string
}

// PathParts returns the name parts that describe where file lives below
// root: the file stem first, then each folder name walking upwards until
// root is reached. Root itself is not included.
func PathParts(file, root string) []string {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := []string{stem}

	rootClean := filepath.Clean(root)
	dir := filepath.Clean(filepath.Dir(file))
	for dir != rootClean && dir != "." && dir != filepath.Dir(dir) {
		parts = append(parts, filepath.Base(dir))
		dir = filepath.Dir(dir)
	}
	return parts
}

// DetectCreator looks for a known creator name in the path parts. The
// innermost part wins. When nothing matches, fallback is returned.
func DetectCreator(parts, known []string, fallback string) string {
	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, creator := range known {
			if creator != "" && strings.Contains(lower, strings.ToLower(creator)) {
				return creator
			}
		}
	}
	return fallback
}

// DetectCategory matches the category terms against the path parts,
// innermost part first. Within one part the longest matching term decides,
// so "Electric Bass" beats "Bass". Returns the empty string when nothing
// matches.
func DetectCategory(parts []string, categories map[string][]string) string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, part := range parts {
		lower := strings.ToLower(part)
		var bestName, bestTerm string
		for _, name := range names {
			for _, term := range categories[name] {
				if term == "" || !strings.Contains(lower, strings.ToLower(term)) {
					continue
				}
				if len(term) > len(bestTerm) {
					bestName, bestTerm = name, term
				}
			}
		}
		if bestName != "" {
			return bestName
		}
	}
	return ""
}

// DetectKeywords collects the vocabulary keywords found in any path part.
// The result is deduplicated and sorted.
func DetectKeywords(parts, keywords []string) []string {
	found := make(map[string]bool)
	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, keyword := range keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				found[keyword] = true
			}
		}
	}
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for keyword := range found {
		out = append(out, keyword)
	}
	sort.Strings(out)
	return out
}
