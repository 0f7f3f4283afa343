package comment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is the persistent model. The store assigns ID on insert; ID and
// UserID never change afterwards. Soft deletion keeps the document around
// with IsDeleted set, so every read path has to filter on it.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	UserID    string             `json:"userId" bson:"userId"`
	HashTags  []string           `json:"hashTags" bson:"hashTags"`
	Mentions  []string           `json:"mentions" bson:"mentions"`
	IsDeleted bool               `json:"isDeleted" bson:"isDeleted"`
	DeletedAt *time.Time         `json:"deletedAt" bson:"deletedAt"`
	DeletedBy string             `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"`
	UpdatedBy string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Update carries the mutable fields of a comment. Nil slices / nil text mean
// "leave unchanged" so a PATCH with a subset of fields only touches what it names.
type Update struct {
	Text     *string
	HashTags []string
	Mentions []string
}

// TagCount is one ranked value with its occurrence count across the corpus.
type TagCount struct {
	Value string `json:"value" bson:"value"`
	Count int64  `json:"count" bson:"count"`
}

// Rankings holds the most frequent hashtags and mentions, each ordered by
// descending count.
type Rankings struct {
	HashTags []TagCount `json:"hashTags"`
	Mentions []TagCount `json:"mentions"`
}

// PageResult is a page of comments plus the metadata echoed back to the caller.
type PageResult struct {
	Comments []*Comment
	Page     Page
}
