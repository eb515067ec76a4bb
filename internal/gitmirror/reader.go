// Package gitmirror reads the history of a git mirror of a fossil repository
// (as produced by "fossil export --git") into fossil changelogs.
package gitmirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04:05"
	commitIDLength  = 10
)

// ReadOptions configures how the mirror history is read.
type ReadOptions struct {
	RepoPath string
	Filter   fossil.PathFilter
	Logger   *slog.Logger
}

// Reader reads changelogs from a git repository using go-git.
type Reader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewReader opens the git repository at opts.RepoPath.
func NewReader(opts ReadOptions) (*Reader, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Reader{repo: repo, opts: opts}, nil
}

// Resolve returns the full hash of a revision. An empty revision means HEAD.
func (r *Reader) Resolve(rev string) (plumbing.Hash, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	return *hash, nil
}

// ReadRange returns the commits reachable from newRev but not from oldRev,
// newest first. An empty oldRev reads the whole history.
func (r *Reader) ReadRange(ctx context.Context, oldRev, newRev string) (*fossil.ChangeLog, error) {
	head, err := r.Resolve(newRev)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	if oldRev != "" {
		base, err := r.Resolve(oldRev)
		if err != nil {
			return nil, err
		}
		if seen, err = r.ancestors(ctx, base); err != nil {
			return nil, err
		}
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	var entries []fossil.ChangeEntry
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen[c.Hash] {
			return nil
		}

		entry, err := r.toEntry(ctx, c)
		if err != nil {
			r.opts.Logger.Debug("skipping commit", "commit", c.Hash.String(), "error", err)
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	r.opts.Logger.Debug("read mirror range", "old", oldRev, "new", head.String(), "entries", len(entries))
	return fossil.NewChangeLog(entries), nil
}

func (r *Reader) ancestors(ctx context.Context, from plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return seen, nil
}

func (r *Reader) toEntry(ctx context.Context, c *object.Commit) (fossil.ChangeEntry, error) {
	when := c.Committer.When.UTC()
	entry := fossil.ChangeEntry{
		Date:      when.Format(dateLayout),
		TimeOfDay: when.Format(timeOfDayLayout),
		CommitID:  c.Hash.String()[:commitIDLength],
		Message:   commitMessage(c),
		IsMerge:   c.NumParents() > 1,
	}

	files, err := r.changedFiles(ctx, c)
	if err != nil {
		return fossil.ChangeEntry{}, err
	}
	entry.AffectedFiles = files
	return entry, nil
}

// changedFiles diffs the commit against its first parent. Root commits are
// diffed against the empty tree. Renames surface as a delete plus an add.
func (r *Reader) changedFiles(ctx context.Context, c *object.Commit) ([]fossil.AffectedFile, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeContext(ctx, parentTree, tree)
	if err != nil {
		return nil, err
	}

	files := make([]fossil.AffectedFile, 0, len(changes))
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, err
		}

		var af fossil.AffectedFile
		switch action {
		case merkletrie.Insert:
			af = fossil.AffectedFile{Path: change.To.Name, EditType: fossil.EditAdded}
		case merkletrie.Delete:
			af = fossil.AffectedFile{Path: change.From.Name, EditType: fossil.EditDeleted}
		default:
			af = fossil.AffectedFile{Path: change.To.Name, EditType: fossil.EditEdited}
		}

		if !r.opts.Filter.IsEmpty() {
			ok, err := r.opts.Filter.Match(af.Path)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		files = append(files, af)
	}
	return files, nil
}

// commitMessage folds the commit message onto one line and appends the
// author the way fossil timelines do.
func commitMessage(c *object.Commit) string {
	msg := strings.Join(strings.Fields(c.Message), " ")
	if c.Author.Name == "" {
		return msg
	}
	return fmt.Sprintf("%s (user: %s)", msg, c.Author.Name)
}
