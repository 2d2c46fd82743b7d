package wheelmk

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const shortHashLen = 7

// RepoDescribe computes the 'git describe --tags --always --dirty' version
// of the repository containing dir without running git. This makes the
// version available on build hosts that have the source checkout but no git
// executable.
func RepoDescribe(dir string) VersionSource {
	return func(context.Context) (string, error) {
		desc, err := DescribeRepo(dir)
		if err != nil {
			return "", fmt.Errorf("describe repository: %w", err)
		}
		return StripVersionPrefix(desc), nil
	}
}

// DescribeRepo names HEAD of the repository containing dir after the nearest
// tag reachable from it, like 'git describe --tags --always --dirty':
//
//	<tag>[-<distance>-g<short hash>][-dirty]
//
// Without any reachable tag the short hash of HEAD is used. The distance is
// counted along the commit history in the order of [git.LogOrderDFS] which
// can differ from git's count for histories with merges.
func DescribeRepo(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("HEAD: %w", err)
	}
	tags, err := commitTags(repo)
	if err != nil {
		return "", err
	}
	var (
		tag      string
		distance int
	)
	commits, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderDFS})
	if err != nil {
		return "", fmt.Errorf("log: %w", err)
	}
	err = commits.ForEach(func(c *object.Commit) error {
		if name, ok := tags[c.Hash]; ok {
			tag = name
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("log: %w", err)
	}
	short := head.Hash().String()[:shortHashLen]
	var desc string
	switch {
	case tag == "":
		desc = short
	case distance == 0:
		desc = tag
	default:
		desc = fmt.Sprintf("%s-%d-g%s", tag, distance, short)
	}
	if dirty, err := isDirty(repo); err != nil {
		return "", fmt.Errorf("status: %w", err)
	} else if dirty {
		desc += "-dirty"
	}
	return desc, nil
}

// commitTags maps commits to the names of their tags. Annotated tags are
// peeled to the tagged commit, tags of other objects are ignored. If a commit
// has more than one tag the greatest name wins.
func commitTags(repo *git.Repository) (map[plumbing.Hash]string, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	res := make(map[plumbing.Hash]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if ato, err := repo.TagObject(hash); err == nil {
			c, err := ato.Commit()
			if err != nil {
				return nil
			}
			hash = c.Hash
		}
		name := ref.Name().Short()
		if old, ok := res[hash]; !ok || name > old {
			res[hash] = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	return res, nil
}

// isDirty reports changes of tracked files. Untracked files do not make the
// tree dirty, same as with git describe.
func isDirty(repo *git.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	st, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, fs := range st {
		if fs.Worktree == git.Untracked {
			continue
		}
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}
