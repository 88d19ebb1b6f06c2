// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     catalog
// Description: Synchronizes examples from a git repository
// Author:      Mike Stoffels
// Created:     2026-09-23
// License:     MIT
// ============================================================================

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// SyncOptions selects the repository content to import
type SyncOptions struct {
	URL    string
	Ref    string // branch, tag or commit; empty means HEAD
	Subdir string // directory inside the repository holding the examples
}

// SyncResult reports what a sync imported
type SyncResult struct {
	Commit string   `json:"commit"`
	Copied []string `json:"copied"`
}

// Sync clones the repository, copies its example files into the catalog
// directory and reloads the catalog.
func (c *Catalog) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, fmt.Errorf("sync: repository url is required")
	}

	tmpDir, err := os.MkdirTemp("", "vibe-catalog-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:   url,
		Depth: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := resolveRef(repo, opts.Ref)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		return nil, fmt.Errorf("git checkout %s: %w", hash, err)
	}

	srcDir, err := insideClone(tmpDir, opts.Subdir)
	if err != nil {
		return nil, err
	}

	copied, err := c.importFiles(srcDir)
	if err != nil {
		return nil, err
	}
	if err := c.LoadAll(); err != nil {
		return nil, err
	}

	c.logger.Info("Examples synchronized", "url", url, "commit", hash.String(), "files", len(copied))
	return &SyncResult{Commit: hash.String(), Copied: copied}, nil
}

// resolveRef tries the ref as given and then as a remote branch
func resolveRef(repo *git.Repository, ref string) (*plumbing.Hash, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}

	candidates := []string{ref}
	if ref != "HEAD" {
		candidates = append(candidates, "origin/"+ref)
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err == nil {
			return hash, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resolve revision %s: %w", ref, lastErr)
}

// insideClone resolves subdir below root and rejects paths whose symlinks
// lead out of the clone
func insideClone(root, subdir string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(realRoot, filepath.Clean("/"+subdir))
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("subdir %s: %w", subdir, err)
	}
	if realDir != realRoot && !strings.HasPrefix(realDir, realRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("subdir %s points outside the repository", subdir)
	}
	return realDir, nil
}

// importFiles copies valid example sources and sidecars into the catalog.
// Only regular files are read, so symlinks in the repository are skipped.
func (c *Catalog) importFiles(srcDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", srcDir, err)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, err
	}

	var copied []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isCatalogFile(entry.Name()) || !ValidName(nameOf(entry.Name())) {
			if entry.Type()&os.ModeSymlink != 0 {
				c.logger.Warn("Skipping symlink in synchronized repository", "file", entry.Name())
			}
			continue
		}
		data, err := os.ReadFile(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return copied, err
		}
		if err := os.WriteFile(filepath.Join(c.dir, entry.Name()), data, 0644); err != nil {
			return copied, err
		}
		copied = append(copied, entry.Name())
	}
	return copied, nil
}
