package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/commently/comment-service/internal/comment"
	"github.com/commently/comment-service/internal/comment/repository"
	"github.com/commently/comment-service/internal/users"
	"github.com/commently/comment-service/pkg/logger"
	"github.com/commently/comment-service/pkg/metrics"
)

var (
	// ErrInvalidUser means identity verification failed for the author.
	ErrInvalidUser = errors.New("invalid user")

	// ErrNotFound covers both a mutation that matched nothing and a query
	// whose authoritative result is empty.
	ErrNotFound = errors.New("not found")

	// ErrUserService means the identity service could not be reached.
	ErrUserService = errors.New("user service unavailable")
)

// RankingsCache is the optional read-through cache for the rankings payload.
type RankingsCache interface {
	Get(ctx context.Context) (*comment.Rankings, error)
	Set(ctx context.Context, r *comment.Rankings) error
}

// CreateInput carries a new comment. Tags and mentions are supplied by the
// caller, never derived here.
type CreateInput struct {
	Text     string
	UserID   string
	HashTags []string
	Mentions []string
}

// Service orchestrates the comment lifecycle and the query paths. All
// collaborators are injected; the service holds no connection state itself.
type Service struct {
	repo      repository.Repository
	verifier  users.Verifier
	cache     RankingsCache
	rankLimit int64
}

func NewService(repo repository.Repository, verifier users.Verifier, cache RankingsCache, rankLimit int64) *Service {
	if rankLimit <= 0 {
		rankLimit = 10
	}
	return &Service{repo: repo, verifier: verifier, cache: cache, rankLimit: rankLimit}
}

// Create verifies the author against the identity service, then persists the
// comment. Nothing is inserted when verification fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*comment.Comment, error) {
	if err := s.verifier.Verify(ctx, in.UserID); err != nil {
		if errors.Is(err, users.ErrUnavailable) {
			logger.Errorf("create comment: identity service unreachable: %v", err)
			metrics.CommentOps.WithLabelValues("create", "error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUserService, err)
		}
		logger.Warnf("create comment: userId %q rejected: %v", in.UserID, err)
		metrics.CommentOps.WithLabelValues("create", "invalid_user").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	if in.HashTags == nil {
		in.HashTags = []string{}
	}
	if in.Mentions == nil {
		in.Mentions = []string{}
	}
	c, err := s.repo.Insert(ctx, &comment.Comment{
		Text:     in.Text,
		UserID:   in.UserID,
		HashTags: in.HashTags,
		Mentions: in.Mentions,
	})
	if err != nil {
		logger.Errorf("create comment: insert failed: %v", err)
		metrics.CommentOps.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	metrics.CommentOps.WithLabelValues("create", "ok").Inc()
	return c, nil
}

// Update applies the provided fields to the caller's own live comment. A
// wrong id, a wrong owner and an already-deleted comment are all ErrNotFound.
func (s *Service) Update(ctx context.Context, id, userID string, upd comment.Update) (*comment.Comment, error) {
	c, err := s.repo.UpdateOwned(ctx, id, userID, upd)
	if err != nil {
		return nil, s.mutationErr("update", id, err)
	}
	metrics.CommentOps.WithLabelValues("update", "ok").Inc()
	return c, nil
}

// SoftDelete marks the caller's own live comment deleted. Deleting twice is
// not an error at the store, but the second call reports ErrNotFound.
func (s *Service) SoftDelete(ctx context.Context, id, userID string) (*comment.Comment, error) {
	c, err := s.repo.SoftDeleteOwned(ctx, id, userID)
	if err != nil {
		return nil, s.mutationErr("delete", id, err)
	}
	metrics.CommentOps.WithLabelValues("delete", "ok").Inc()
	return c, nil
}

func (s *Service) mutationErr(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		metrics.CommentOps.WithLabelValues(op, "not_found").Inc()
		return ErrNotFound
	}
	logger.Errorf("%s comment %s: %v", op, id, err)
	metrics.CommentOps.WithLabelValues(op, "error").Inc()
	return err
}

// ByUser returns one page of an author's live comments, newest first.
func (s *Service) ByUser(ctx context.Context, userID, page, limit string) (*comment.PageResult, error) {
	return s.paginated(ctx, "by_user", comment.ForUser(userID), page, limit)
}

// Search returns one page of live comments whose hashtags or mentions contain
// the token; an empty token matches everything.
func (s *Service) Search(ctx context.Context, token, page, limit string) (*comment.PageResult, error) {
	return s.paginated(ctx, "search", comment.ForSearch(token), page, limit)
}

func (s *Service) paginated(ctx context.Context, op string, f comment.Filter, page, limit string) (*comment.PageResult, error) {
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		logger.Errorf("%s: count failed: %v", op, err)
		metrics.CommentOps.WithLabelValues(op, "error").Inc()
		return nil, err
	}
	if total == 0 {
		metrics.CommentOps.WithLabelValues(op, "not_found").Inc()
		return nil, ErrNotFound
	}

	p := comment.ResolvePage(page, limit, total)
	items, err := s.repo.Find(ctx, f, p.Skip, p.Limit)
	if err != nil {
		logger.Errorf("%s: find failed: %v", op, err)
		metrics.CommentOps.WithLabelValues(op, "error").Inc()
		return nil, err
	}
	metrics.CommentOps.WithLabelValues(op, "ok").Inc()
	return &comment.PageResult{Comments: items, Page: p}, nil
}

// Rankings returns the top hashtags and mentions, serving from the cache when
// one is configured and falling back to the store's single-pass aggregation.
func (s *Service) Rankings(ctx context.Context) (*comment.Rankings, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err != nil {
			logger.Warnf("rankings cache read failed: %v", err)
		} else if cached != nil {
			metrics.CommentOps.WithLabelValues("rankings", "cached").Inc()
			return cached, nil
		}
	}

	r, err := s.repo.Rankings(ctx, s.rankLimit)
	if err != nil {
		logger.Errorf("rankings aggregation failed: %v", err)
		metrics.CommentOps.WithLabelValues("rankings", "error").Inc()
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, r); err != nil {
			logger.Warnf("rankings cache write failed: %v", err)
		}
	}
	metrics.CommentOps.WithLabelValues("rankings", "ok").Inc()
	return r, nil
}
