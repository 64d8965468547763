package ruleset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CategoryFile is the category list read from the work directory.
const CategoryFile = "config.json"

type categoryDocument struct {
	Category json.RawMessage `json:"category"`
}

// LoadCategories reads <workDir>/config.json.
func LoadCategories(workDir string) (valid, skipped []string, err error) {
	path := filepath.Join(workDir, CategoryFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open category list: %w", err)
	}
	defer f.Close()

	valid, skipped, err = ParseCategories(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return valid, skipped, nil
}

// ParseCategories decodes a {"category": [...]} document. Entries that are
// not usable category names are returned in skipped, in their JSON form. A
// document that is not an object or has no category array yields no
// categories; only malformed JSON is an error.
func ParseCategories(r io.Reader) (valid, skipped []string, err error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode category list: %w", err)
	}
	var doc categoryDocument
	if json.Unmarshal(raw, &doc) != nil {
		return nil, nil, nil
	}

	var entries []json.RawMessage
	if len(doc.Category) == 0 || json.Unmarshal(doc.Category, &entries) != nil {
		return nil, nil, nil
	}

	for _, entry := range entries {
		var name string
		if err := json.Unmarshal(entry, &name); err != nil || !validCategory(name) {
			skipped = append(skipped, string(entry))
			continue
		}
		valid = append(valid, name)
	}
	return valid, skipped, nil
}

// validCategory rejects names that cannot safely become part of a file name
// inside the work directory.
func validCategory(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return true
}
