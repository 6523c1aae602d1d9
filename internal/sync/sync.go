// Package sync implements Knowledge Sync: orphan-branch
// read/write of the four shared knowledge files, with a merge strategy
// per file and a rate limit on remote fetches.
package sync

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notkurt/ghost/internal/config"
	"github.com/notkurt/ghost/internal/knowledge"
	"github.com/notkurt/ghost/internal/paths"
	"github.com/notkurt/ghost/internal/scm"
)

var sharedFiles = []string{"knowledge.md", "mistakes.md", "decisions.md", "tags.json"}

func localPath(repo, name string) string {
	switch name {
	case "knowledge.md":
		return paths.KnowledgeFile(repo)
	case "mistakes.md":
		return paths.MistakesFile(repo)
	case "decisions.md":
		return paths.DecisionsFile(repo)
	default:
		return paths.TagsIndexFile(repo)
	}
}

// Init ensures the orphan branch exists locally, fetching it from the
// remote first, falling back to an empty-tree commit.
func Init(ctx context.Context, repo string, a *scm.Adapter, cfg *config.Config) {
	branch := cfg.Git.OrphanBranch
	if a.BranchExists(ctx, branch) {
		return
	}
	if a.RemoteExists(ctx, cfg.Git.DefaultRemote) && a.FetchBranch(ctx, cfg.Git.DefaultRemote, branch) {
		return
	}
	a.CreateOrphanBranch(ctx, branch)
}

// shouldFetch reports whether enough time has passed since the last
// remote fetch to allow another one.
func shouldFetch(repo string, now time.Time, intervalMinutes int) bool {
	data, err := os.ReadFile(paths.LastSyncFile(repo))
	if err != nil {
		return true
	}
	unixSecs, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return true
	}
	last := time.Unix(unixSecs, 0)
	return now.Sub(last) >= time.Duration(intervalMinutes)*time.Minute
}

func markFetched(repo string, now time.Time) {
	_ = os.WriteFile(paths.LastSyncFile(repo), []byte(strconv.FormatInt(now.Unix(), 10)), 0o644)
}

// merge applies the file-specific strategy.
func merge(name, local, remote string) string {
	switch name {
	case "knowledge.md":
		if strings.TrimSpace(local) == "" {
			return remote
		}
		return local
	case "tags.json":
		return mergeTagsJSON(local, remote)
	default: // mistakes.md, decisions.md
		localEntries := knowledge.Parse(local)
		remoteEntries := knowledge.Parse(remote)
		if !knowledge.HasStructuredEntry(localEntries) && !knowledge.HasStructuredEntry(remoteEntries) {
			return knowledge.MergeBlocks(local, remote)
		}
		merged := knowledge.MergeEntries(localEntries, remoteEntries)
		var sb strings.Builder
		for _, e := range merged {
			if e.Title == "" {
				continue
			}
			if isLegacyOnly(e) {
				sb.WriteString(knowledge.FormatLegacy(e.Title))
			} else {
				sb.WriteString(knowledge.Format(e))
			}
		}
		return sb.String()
	}
}

func isLegacyOnly(e knowledge.Entry) bool {
	return e.SessionID == "" && e.CommitSHA == "" && len(e.Files) == 0 && e.Date == "" && e.Rule == "" && len(e.Tried) == 0
}

// Pull merges the branch's four files into the local copies, fetching
// from the remote first if the rate limit allows it.
func Pull(ctx context.Context, repo string, a *scm.Adapter, cfg *config.Config, now time.Time) {
	Init(ctx, repo, a, cfg)
	branch := cfg.Git.OrphanBranch

	if shouldFetch(repo, now, cfg.Sync.PullIntervalMinutes) && a.RemoteExists(ctx, cfg.Git.DefaultRemote) {
		if a.FetchBranch(ctx, cfg.Git.DefaultRemote, branch) {
			markFetched(repo, now)
		}
	}

	for _, name := range sharedFiles {
		remote, ok := a.ReadBlob(ctx, branch, name)
		if !ok {
			continue
		}
		path := localPath(repo, name)
		localBytes, _ := os.ReadFile(path)
		local := string(localBytes)

		merged := merge(name, local, remote)
		if merged != local {
			_ = os.WriteFile(path, []byte(merged), 0o644)
		}
	}
}

// Push merges local files with the branch's current blobs and writes
// the result as a new commit on the orphan branch, then pushes it to
// the remote if one is configured. Local files and the checked-out
// worktree are never modified.
func Push(ctx context.Context, repo string, a *scm.Adapter, cfg *config.Config) {
	Init(ctx, repo, a, cfg)
	branch := cfg.Git.OrphanBranch

	files := map[string][]byte{}
	for _, name := range sharedFiles {
		localBytes, err := os.ReadFile(localPath(repo, name))
		if err != nil || strings.TrimSpace(string(localBytes)) == "" {
			continue
		}
		remote, _ := a.ReadBlob(ctx, branch, name)
		merged := merge(name, string(localBytes), remote)
		files[name] = []byte(merged)
	}
	if len(files) == 0 {
		return
	}

	if a.WriteOrphanCommit(ctx, branch, files, "sync shared knowledge") {
		if a.RemoteExists(ctx, cfg.Git.DefaultRemote) {
			a.PushBranch(ctx, cfg.Git.DefaultRemote, branch)
		}
	}
}
