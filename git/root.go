package git

import (
	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
)

// FindRoot returns the top-level directory of the work tree containing dir.
// Paths reported by git are relative to this directory.
func FindRoot(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", ErrNotRepository
		}
		return "", errors.Wrapf(err, "open repository at %s", dir)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		// bare repositories have no work tree
		return "", errors.Mark(errors.Wrap(err, "resolve work tree"), ErrNotRepository)
	}
	return worktree.Filesystem.Root(), nil
}
