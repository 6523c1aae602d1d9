package scm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteOrphanCommit writes files onto branch without touching the
// worktree or HEAD: hash each blob, stage it into a
// throwaway index, write that index as a tree, commit it with the
// branch's current tip as parent (or no parent if the branch is new),
// and advance the ref. The temporary index is removed on every exit path.
func (a *Adapter) WriteOrphanCommit(ctx context.Context, branch string, files map[string][]byte, message string) bool {
	tmpIndex := filepath.Join(os.TempDir(), fmt.Sprintf("ghost-index-%s", uuid.NewString()))
	defer os.Remove(tmpIndex)

	env := []string{"GIT_INDEX_FILE=" + tmpIndex}

	parent, hasParent := a.resolveCommit(ctx, branch)

	if hasParent {
		// Seed the temp index from the branch's existing tree so files
		// we don't touch this call are preserved.
		if _, _, err := a.run(ctx, env, "read-tree", parent); err != nil {
			return false
		}
	}

	for name, content := range files {
		blobPath := filepath.Join(os.TempDir(), fmt.Sprintf("ghost-blob-%s", uuid.NewString()))
		if err := os.WriteFile(blobPath, content, 0o644); err != nil {
			return false
		}
		sha, _, err := a.run(ctx, nil, "hash-object", "-w", blobPath)
		os.Remove(blobPath)
		if err != nil || sha == "" {
			return false
		}
		if _, _, err := a.run(ctx, env, "update-index", "--add", "--cacheinfo", "100644", sha, name); err != nil {
			return false
		}
	}

	tree, _, err := a.run(ctx, env, "write-tree")
	if err != nil || tree == "" {
		return false
	}

	commitArgs := []string{"commit-tree", tree, "-m", message}
	if hasParent {
		commitArgs = append(commitArgs, "-p", parent)
	}
	commit, _, err := a.run(ctx, nil, commitArgs...)
	if err != nil || commit == "" {
		return false
	}

	ref := "refs/heads/" + branch
	if _, _, err := a.run(ctx, nil, "update-ref", ref, commit); err != nil {
		return false
	}
	return true
}

// CreateOrphanBranch builds an empty-tree commit and points branch at
// it, used when init can't fetch the branch from any remote.
func (a *Adapter) CreateOrphanBranch(ctx context.Context, branch string) bool {
	emptyTree, _, err := a.run(ctx, nil, "hash-object", "-t", "tree", "/dev/null")
	if err != nil || emptyTree == "" {
		// hash-object on /dev/null as a tree fails on most gits; fall back
		// to the well-known empty tree sha.
		emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	}
	commit, _, err := a.run(ctx, nil, "commit-tree", emptyTree, "-m", "initialize ghost knowledge branch")
	if err != nil || commit == "" {
		return false
	}
	_, _, err = a.run(ctx, nil, "update-ref", "refs/heads/"+branch, commit)
	return err == nil
}
