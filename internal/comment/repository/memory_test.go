package repository

import (
	"context"
	"testing"

	"github.com/commently/comment-service/internal/comment"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *MemoryRepo, userID, text string, tags, mentions []string) *comment.Comment {
	t.Helper()
	c, err := repo.Insert(context.Background(), &comment.Comment{
		Text:     text,
		UserID:   userID,
		HashTags: tags,
		Mentions: mentions,
	})
	require.NoError(t, err)
	return c
}

func TestMemoryRepoInsertAssignsIdentity(t *testing.T) {
	repo := NewMemoryRepo()
	c := seed(t, repo, "u1", "hello", []string{"x"}, nil)
	require.False(t, c.ID.IsZero())
	require.False(t, c.CreatedAt.IsZero())
	require.False(t, c.IsDeleted)
}

func TestMemoryRepoUpdateOwned(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	c := seed(t, repo, "u1", "hello", []string{"x"}, nil)

	text := "edited"
	got, err := repo.UpdateOwned(ctx, c.ID.Hex(), "u1", comment.Update{Text: &text, HashTags: []string{"y"}})
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)
	require.Equal(t, []string{"y"}, got.HashTags)
	require.Equal(t, "u1", got.UpdatedBy)

	// wrong owner: same answer as a missing id, existence stays hidden
	_, err = repo.UpdateOwned(ctx, c.ID.Hex(), "u2", comment.Update{Text: &text})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoUpdateMalformedID(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.UpdateOwned(context.Background(), "not-a-hex-id", "u1", comment.Update{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoSoftDeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	c := seed(t, repo, "u1", "hello", nil, nil)

	first, err := repo.SoftDeleteOwned(ctx, c.ID.Hex(), "u1")
	require.NoError(t, err)
	require.True(t, first.IsDeleted)
	require.NotNil(t, first.DeletedAt)
	require.Equal(t, "u1", first.DeletedBy)

	// the second delete finds no live document
	_, err = repo.SoftDeleteOwned(ctx, c.ID.Hex(), "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoFindExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	keep := seed(t, repo, "u1", "keep", []string{"go"}, nil)
	gone := seed(t, repo, "u1", "gone", []string{"go"}, nil)
	_, err := repo.SoftDeleteOwned(ctx, gone.ID.Hex(), "u1")
	require.NoError(t, err)

	n, err := repo.Count(ctx, comment.ForUser("u1"))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := repo.Find(ctx, comment.ForUser("u1"), 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, keep.ID, got[0].ID)
}

func TestMemoryRepoFindWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for i := 0; i < 7; i++ {
		seed(t, repo, "u1", "c", nil, nil)
	}

	page1, err := repo.Find(ctx, comment.Filter{}, 0, 5)
	require.NoError(t, err)
	require.Len(t, page1, 5)

	page2, err := repo.Find(ctx, comment.Filter{}, 5, 5)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	beyond, err := repo.Find(ctx, comment.Filter{}, 50, 5)
	require.NoError(t, err)
	require.Empty(t, beyond)
}

func TestMemoryRepoRankings(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	seed(t, repo, "u1", "1", []string{"a", "a", "b"}, []string{"@m"})
	seed(t, repo, "u1", "2", []string{"a", "c"}, nil)
	seed(t, repo, "u2", "3", []string{"b"}, []string{"@m", "@n"})

	r, err := repo.Rankings(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []comment.TagCount{{Value: "a", Count: 3}, {Value: "b", Count: 2}, {Value: "c", Count: 1}}, r.HashTags)
	require.Equal(t, []comment.TagCount{{Value: "@m", Count: 2}, {Value: "@n", Count: 1}}, r.Mentions)
}

func TestMemoryRepoRankingsExcludeDeletedAndApplyLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for i := 0; i < 12; i++ {
		seed(t, repo, "u1", "c", []string{string(rune('a' + i))}, nil)
	}
	dead := seed(t, repo, "u1", "dead", []string{"loud", "loud", "loud"}, nil)
	_, err := repo.SoftDeleteOwned(ctx, dead.ID.Hex(), "u1")
	require.NoError(t, err)

	r, err := repo.Rankings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, r.HashTags, 10)
	for _, tc := range r.HashTags {
		require.NotEqual(t, "loud", tc.Value)
	}
}
