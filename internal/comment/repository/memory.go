package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/commently/comment-service/internal/comment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by unit tests. It keeps
// insertion order so ranking ties and equal-timestamp sorts stay stable.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []*comment.Comment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Insert(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsDeleted = false
	stored := *c
	m.items = append(m.items, &stored)
	out := stored
	return &out, nil
}

func (m *MemoryRepo) UpdateOwned(ctx context.Context, id, userID string, upd comment.Update) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lockedFindOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if upd.Text != nil {
		c.Text = *upd.Text
	}
	if upd.HashTags != nil {
		c.HashTags = upd.HashTags
	}
	if upd.Mentions != nil {
		c.Mentions = upd.Mentions
	}
	c.UpdatedBy = userID
	c.UpdatedAt = time.Now().UTC()
	out := *c
	return &out, nil
}

func (m *MemoryRepo) SoftDeleteOwned(ctx context.Context, id, userID string) (*comment.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lockedFindOwned(id, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.IsDeleted = true
	c.DeletedAt = &now
	c.DeletedBy = userID
	out := *c
	return &out, nil
}

// lockedFindOwned applies the same combined id+owner+not-deleted filter the
// Mongo implementation pushes into FindOneAndUpdate.
func (m *MemoryRepo) lockedFindOwned(id, userID string) (*comment.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse comment id %q: %w", id, err)
	}
	for _, c := range m.items {
		if c.ID == oid && c.UserID == userID && !c.IsDeleted {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Count(ctx context.Context, f comment.Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, c := range m.items {
		if f.Matches(c) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) Find(ctx context.Context, f comment.Filter, skip, limit int64) ([]*comment.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []*comment.Comment{}
	for _, c := range m.items {
		if f.Matches(c) {
			cp := *c
			matched = append(matched, &cp)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(matched)) {
		return []*comment.Comment{}, nil
	}
	matched = matched[skip:]
	if limit >= 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MemoryRepo) Rankings(ctx context.Context, limit int64) (*comment.Rankings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := &comment.Rankings{
		HashTags: topValues(m.items, limit, func(c *comment.Comment) []string { return c.HashTags }),
		Mentions: topValues(m.items, limit, func(c *comment.Comment) []string { return c.Mentions }),
	}
	return out, nil
}

// topValues counts distinct values in one pass, descending by count with ties
// kept in first-encountered order.
func topValues(items []*comment.Comment, limit int64, field func(*comment.Comment) []string) []comment.TagCount {
	counts := map[string]int64{}
	order := []string{}
	for _, c := range items {
		if c.IsDeleted {
			continue
		}
		for _, v := range field(c) {
			if _, seen := counts[v]; !seen {
				order = append(order, v)
			}
			counts[v]++
		}
	}
	ranked := make([]comment.TagCount, 0, len(order))
	for _, v := range order {
		ranked = append(ranked, comment.TagCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if limit >= 0 && int64(len(ranked)) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
