package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/commently/comment-service/internal/comment"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository against a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// userId is on every author lookup and every ownership-filtered update
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isDeleted", Value: 1}}}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (r *MongoRepo) Insert(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsDeleted = false
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (r *MongoRepo) UpdateOwned(ctx context.Context, id, userID string, upd comment.Update) (*comment.Comment, error) {
	set := bson.M{"updatedBy": userID, "updatedAt": time.Now().UTC()}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}
	if upd.HashTags != nil {
		set["hashTags"] = upd.HashTags
	}
	if upd.Mentions != nil {
		set["mentions"] = upd.Mentions
	}
	return r.findOneAndUpdate(ctx, id, userID, set)
}

func (r *MongoRepo) SoftDeleteOwned(ctx context.Context, id, userID string) (*comment.Comment, error) {
	set := bson.M{
		"isDeleted": true,
		"deletedAt": time.Now().UTC(),
		"deletedBy": userID,
	}
	return r.findOneAndUpdate(ctx, id, userID, set)
}

// findOneAndUpdate is the single atomic existence+ownership check: the filter
// matches id, owner and not-deleted together, so it either applies the patch
// or matches nothing. No separate lookup precedes it.
func (r *MongoRepo) findOneAndUpdate(ctx context.Context, id, userID string, set bson.M) (*comment.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse comment id %q: %w", id, err)
	}
	filter := bson.M{"_id": oid, "userId": userID, "isDeleted": false}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated comment.Comment
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &updated, nil
}

func (r *MongoRepo) Count(ctx context.Context, f comment.Filter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, compileFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (r *MongoRepo) Find(ctx context.Context, f comment.Filter, skip, limit int64) ([]*comment.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, compileFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cur.Close(ctx)
	out := []*comment.Comment{}
	for cur.Next(ctx) {
		var c comment.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		out = append(out, &c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// Rankings runs one $facet aggregation fanning into the hashtag and mention
// pipelines, so both top lists come from a single scan of the collection.
// Soft-deleted comments are excluded up front.
func (r *MongoRepo) Rankings(ctx context.Context, limit int64) (*comment.Rankings, error) {
	facet := func(field string) []bson.M {
		return []bson.M{
			{"$unwind": bson.M{"path": "$" + field}},
			{"$sortByCount": "$" + field},
			{"$limit": limit},
			{"$project": bson.M{"_id": 0, "value": "$_id", "count": 1}},
		}
	}
	pipeline := []bson.M{
		{"$match": bson.M{"isDeleted": false}},
		{"$facet": bson.M{
			"hashTags": facet("hashTags"),
			"mentions": facet("mentions"),
		}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate rankings: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		HashTags []comment.TagCount `bson:"hashTags"`
		Mentions []comment.TagCount `bson:"mentions"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}

	out := &comment.Rankings{HashTags: []comment.TagCount{}, Mentions: []comment.TagCount{}}
	if len(rows) > 0 {
		if rows[0].HashTags != nil {
			out.HashTags = rows[0].HashTags
		}
		if rows[0].Mentions != nil {
			out.Mentions = rows[0].Mentions
		}
	}
	return out, nil
}

// compileFilter translates the domain filter into a query document. Every
// query path pins isDeleted=false; the search token becomes a quoted
// case-insensitive regex (substring match, not a user-supplied pattern).
func compileFilter(f comment.Filter) bson.M {
	q := bson.M{"isDeleted": false}
	if f.UserID != "" {
		q["userId"] = f.UserID
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = []bson.M{
			{"hashTags": bson.M{"$regex": re}},
			{"mentions": bson.M{"$regex": re}},
		}
	}
	return q
}
