package service

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/commently/comment-service/internal/cache"
	"github.com/commently/comment-service/internal/comment"
	"github.com/commently/comment-service/internal/comment/repository"
	"github.com/commently/comment-service/internal/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts a fixed set of userIds; a nil set means "unreachable".
type fakeVerifier struct {
	known map[string]bool
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, userID string) error {
	f.calls++
	if f.known == nil {
		return users.ErrUnavailable
	}
	if !f.known[userID] {
		return users.ErrUnknownUser
	}
	return nil
}

func newTestService(verifier users.Verifier) (*Service, *repository.MemoryRepo) {
	repo := repository.NewMemoryRepo()
	return NewService(repo, verifier, nil, 10), repo
}

func TestCreateVerifiesUserFirst(t *testing.T) {
	ctx := context.Background()
	ver := &fakeVerifier{known: map[string]bool{"u1": true}}
	svc, repo := newTestService(ver)

	c, err := svc.Create(ctx, CreateInput{Text: "hi", UserID: "u1", HashTags: []string{"x"}})
	require.NoError(t, err)
	require.False(t, c.ID.IsZero())
	require.Equal(t, 1, ver.calls)

	// rejected author: nothing persisted
	_, err = svc.Create(ctx, CreateInput{Text: "hi", UserID: "ghost"})
	require.ErrorIs(t, err, ErrInvalidUser)
	n, err := repo.Count(ctx, comment.Filter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCreateUpstreamDown(t *testing.T) {
	svc, repo := newTestService(&fakeVerifier{})
	_, err := svc.Create(context.Background(), CreateInput{Text: "hi", UserID: "u1"})
	require.ErrorIs(t, err, ErrUserService)
	require.NotErrorIs(t, err, ErrInvalidUser)
	n, _ := repo.Count(context.Background(), comment.Filter{})
	require.Zero(t, n)
}

func TestUpdateNoMatchIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&fakeVerifier{known: map[string]bool{"u1": true}})

	c, err := svc.Create(ctx, CreateInput{Text: "hi", UserID: "u1"})
	require.NoError(t, err)

	text := "edited"
	got, err := svc.Update(ctx, c.ID.Hex(), "u1", comment.Update{Text: &text})
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)
	require.Equal(t, "u1", got.UpdatedBy)

	// mismatched owner
	_, err = svc.Update(ctx, c.ID.Hex(), "u2", comment.Update{Text: &text})
	require.ErrorIs(t, err, ErrNotFound)

	// missing id
	_, err = svc.Update(ctx, "65f000000000000000000000", "u1", comment.Update{Text: &text})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteAsymmetry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&fakeVerifier{known: map[string]bool{"u1": true}})

	c, err := svc.Create(ctx, CreateInput{Text: "hi", UserID: "u1"})
	require.NoError(t, err)

	deleted, err := svc.SoftDelete(ctx, c.ID.Hex(), "u1")
	require.NoError(t, err)
	require.True(t, deleted.IsDeleted)
	firstDeletedAt := deleted.DeletedAt
	require.NotNil(t, firstDeletedAt)

	// the second call is a store-level no-op but not a success
	_, err = svc.SoftDelete(ctx, c.ID.Hex(), "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestByUserPaginatesAndHidesDeleted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&fakeVerifier{known: map[string]bool{"u1": true, "u2": true}})

	var last *comment.Comment
	for i := 0; i < 7; i++ {
		c, err := svc.Create(ctx, CreateInput{Text: "mine", UserID: "u1"})
		require.NoError(t, err)
		last = c
	}
	_, err := svc.Create(ctx, CreateInput{Text: "other", UserID: "u2"})
	require.NoError(t, err)
	_, err = svc.SoftDelete(ctx, last.ID.Hex(), "u1")
	require.NoError(t, err)

	res, err := svc.ByUser(ctx, "u1", "1", "5")
	require.NoError(t, err)
	require.Len(t, res.Comments, 5)
	require.EqualValues(t, 6, res.Page.Total)
	require.EqualValues(t, 2, res.Page.TotalPages)

	res, err = svc.ByUser(ctx, "u1", "2", "5")
	require.NoError(t, err)
	require.Len(t, res.Comments, 1)

	// author with nothing
	_, err = svc.ByUser(ctx, "nobody", "1", "5")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchEmptyTokenMatchesAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&fakeVerifier{known: map[string]bool{"u1": true}})

	_, err := svc.Create(ctx, CreateInput{Text: "a", UserID: "u1", HashTags: []string{"GoLang"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Text: "b", UserID: "u1", Mentions: []string{"@Alice"}})
	require.NoError(t, err)

	all, err := svc.Search(ctx, "", "1", "5")
	require.NoError(t, err)
	require.Len(t, all.Comments, 2)

	hit, err := svc.Search(ctx, "alice", "1", "5")
	require.NoError(t, err)
	require.Len(t, hit.Comments, 1)
	require.Equal(t, "b", hit.Comments[0].Text)

	_, err = svc.Search(ctx, "nosuchtag", "1", "5")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRankingsOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&fakeVerifier{known: map[string]bool{"u1": true}})

	for _, tags := range [][]string{{"a", "a", "b"}, {"a", "c"}, {"b"}} {
		_, err := svc.Create(ctx, CreateInput{Text: "t", UserID: "u1", HashTags: tags})
		require.NoError(t, err)
	}

	r, err := svc.Rankings(ctx)
	require.NoError(t, err)
	require.Equal(t, []comment.TagCount{{Value: "a", Count: 3}, {Value: "b", Count: 2}, {Value: "c", Count: 1}}, r.HashTags)
	require.Empty(t, r.Mentions)
}

func TestRankingsCacheAside(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := NewService(repo, &fakeVerifier{known: map[string]bool{"u1": true}}, cache.NewRankingsCache(client, time.Minute), 10)

	_, err = svc.Create(ctx, CreateInput{Text: "t", UserID: "u1", HashTags: []string{"a"}})
	require.NoError(t, err)

	first, err := svc.Rankings(ctx)
	require.NoError(t, err)
	require.Equal(t, []comment.TagCount{{Value: "a", Count: 1}}, first.HashTags)

	// a write after the cache fill is not visible until the TTL lapses
	_, err = svc.Create(ctx, CreateInput{Text: "t", UserID: "u1", HashTags: []string{"b", "b"}})
	require.NoError(t, err)

	stale, err := svc.Rankings(ctx)
	require.NoError(t, err)
	require.Equal(t, first, stale)

	m.FastForward(2 * time.Minute)
	fresh, err := svc.Rankings(ctx)
	require.NoError(t, err)
	require.Equal(t, []comment.TagCount{{Value: "b", Count: 2}, {Value: "a", Count: 1}}, fresh.HashTags)
}
