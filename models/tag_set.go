package models

// TagSet holds the full tag list of a single blog post. The unique index on
// BlogPostID makes the relation one-to-one: every post has at most one tag
// set, and updates replace the list in place rather than editing individual
// rows.
type TagSet struct {
	ID         int      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	BlogPostID int      `json:"blogPostId" db:"blog_post_id" gorm:"not null;uniqueIndex:idx_tag_sets_blog_post_id"`
	Tags       []string `json:"tags" db:"tags" gorm:"serializer:json;type:text;not null"`
}
