package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"talecraft/internal/config"
	"talecraft/internal/parser"
	"talecraft/internal/store"
)

// Store is the slice of the storage API the ingest pipeline needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SourceHashes(ctx context.Context) (map[string]string, error)
	UpsertInteraction(ctx context.Context, in store.Interaction) error
	RemoveStaleInteractions(ctx context.Context, currentSourceFiles []string) (int64, error)
}

type Result struct {
	InteractionsUpserted int
	InteractionsRemoved  int
	FilesSkipped         int
	Errors               []error
}

type Options struct {
	Full bool
}

// Run walks the project's content paths and syncs every interaction
// document into the store. Unchanged files are skipped unless
// options.Full is set, and rows whose source file no longer exists are
// removed at the end. Per-file problems are collected in Result.Errors
// rather than aborting the run.
func Run(ctx context.Context, cfg *config.ProjectConfig, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.SourceHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading source hashes: %w", err)
		}
	}

	files, err := walkMarkdownFiles(cfg.Content, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking content paths: %w", err)
	}

	result := &Result{}
	seen := make(map[string]string)

	for _, path := range files {
		hash, err := computeHash(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("hashing %s: %w", path, err))
			continue
		}
		if !options.Full {
			if existing, ok := existingHashes[path]; ok && existing == hash {
				result.FilesSkipped++
				continue
			}
		}

		doc, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) || errors.Is(err, parser.ErrNotInteraction) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}

		if prev, ok := seen[doc.ID]; ok {
			result.Errors = append(result.Errors, fmt.Errorf("duplicate interaction id %q in %s (already defined in %s)", doc.ID, path, prev))
			continue
		}
		seen[doc.ID] = path

		if err := db.UpsertInteraction(ctx, store.Interaction{Doc: *doc, SourceHash: hash}); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", path, err))
			continue
		}
		result.InteractionsUpserted++
	}

	removed, err := db.RemoveStaleInteractions(ctx, files)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale interactions: %w", err))
		return result, nil
	}
	result.InteractionsRemoved = int(removed)

	return result, nil
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
