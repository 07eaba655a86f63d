package models

import "time"

// BlogPost represents a published post together with its tag set.
//
// UserID references the authoring User by ID only; no foreign key constraint
// is declared, matching the loose coupling of the original schema.
type BlogPost struct {
	ID        int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	Body      string    `json:"body" db:"body" gorm:"type:text;not null"`
	UserID    int       `json:"userId" db:"user_id" gorm:"not null;index:idx_blog_posts_user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
	TagSet    *TagSet   `json:"tagSet,omitempty" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TagList returns the post's tags, or an empty slice when the post has no
// tag set yet.
func (p BlogPost) TagList() []string {
	if p.TagSet == nil {
		return []string{}
	}
	return p.TagSet.Tags
}
