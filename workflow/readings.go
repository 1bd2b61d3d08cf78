package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// UnknownAuthor labels readings with no attribution.
const UnknownAuthor = "Unknown"

type folderLoader interface {
	Supported(path string) bool
	Load(path string) (string, error)
}

// ReadingFromFile loads one reading, defaulting the title to the file stem
// and the author to UnknownAuthor.
func ReadingFromFile(loader documentLoader, path, title, author string) (Reading, error) {
	text, err := loader.Load(path)
	if err != nil {
		return Reading{}, err
	}

	if title == "" {
		title = stem(path)
	}
	if author == "" {
		author = UnknownAuthor
	}

	return Reading{Title: title, Author: author, Content: text}, nil
}

// LoadSecondaryFolder loads every supported file in dir as a secondary
// reading, in name order. Files that fail to load are skipped with a
// warning; a missing directory yields no readings.
func LoadSecondaryFolder(loader folderLoader, dir, author string, log *slog.Logger) []Reading {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("secondary reading folder unavailable", "dir", dir, "error", err)
		return nil
	}

	var res []Reading
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !loader.Supported(path) {
			continue
		}

		text, err := loader.Load(path)
		if err != nil {
			log.Warn("skipping secondary reading", "file", entry.Name(), "error", err)
			continue
		}

		res = append(res, Reading{Title: stem(path), Author: author, Content: text})
		log.Info("loaded secondary reading", "file", entry.Name())
	}

	return res
}

// LoadObjectives reads one learning objective per line, skipping blanks.
// A missing file means no objectives, not an error.
func LoadObjectives(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading objectives file: %w", err)
	}

	var objectives []string
	for _, line := range strings.Split(string(buf), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			objectives = append(objectives, line)
		}
	}

	return objectives, nil
}
