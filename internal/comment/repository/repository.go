package repository

import (
	"context"
	"errors"

	"github.com/commently/comment-service/internal/comment"
)

var (
	// ErrNotFound means no comment matched the requested id+owner+not-deleted
	// filter. An update or delete that hits it touched nothing.
	ErrNotFound = errors.New("comment not found")
)

// Repository is the persistence contract the service layer depends on. The
// store connection is constructed at startup and injected; there is no
// package-level store handle.
type Repository interface {
	// Insert persists a new comment, assigning its id and timestamps.
	Insert(ctx context.Context, c *comment.Comment) (*comment.Comment, error)

	// UpdateOwned applies upd to the comment matched by id+owner+not-deleted
	// in one atomic step and returns the updated document. The combined
	// filter is the ownership check: a wrong owner and a missing id are both
	// ErrNotFound, so existence is never revealed across owners.
	UpdateOwned(ctx context.Context, id, userID string, upd comment.Update) (*comment.Comment, error)

	// SoftDeleteOwned marks the comment matched by id+owner+not-deleted as
	// deleted. A second delete of the same comment finds no match and
	// returns ErrNotFound.
	SoftDeleteOwned(ctx context.Context, id, userID string) (*comment.Comment, error)

	// Count returns the number of comments matching f.
	Count(ctx context.Context, f comment.Filter) (int64, error)

	// Find returns the comments matching f, newest first, within the
	// skip/limit window.
	Find(ctx context.Context, f comment.Filter, skip, limit int64) ([]*comment.Comment, error)

	// Rankings returns the most frequent hashtags and mentions across all
	// non-deleted comments, both computed in a single pass. Ties keep the
	// order the store produced them in.
	Rankings(ctx context.Context, limit int64) (*comment.Rankings, error)
}
