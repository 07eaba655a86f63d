package database

import (
	"context"
	"errors"

	"github.com/inkwell-app/inkwell-backend/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// BlogPostUpdate carries the optional fields of an update. A nil pointer
// means "leave unchanged"; a non-nil Tags pointer replaces the whole tag
// list, never merges.
type BlogPostUpdate struct {
	Title *string
	Body  *string
	Tags  *[]string
}

// FindAll returns all blog posts with their tag sets preloaded.
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.db.WithContext(ctx).Preload("TagSet").Order("id").Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns the blog post at id with its tag set, or nil when no such
// post exists.
func (r *BlogPostRepo) FindByID(ctx context.Context, id int) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Preload("TagSet").First(&blogPost, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Create inserts the post and its tag set in one transaction; either both
// rows exist afterwards or neither does.
func (r *BlogPostRepo) Create(ctx context.Context, blogPost *models.BlogPost, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TagSet").Create(blogPost).Error; err != nil {
			return err
		}

		tagSet := models.TagSet{
			BlogPostID: blogPost.ID,
			Tags:       tags,
		}
		if err := tx.Create(&tagSet).Error; err != nil {
			return err
		}

		blogPost.TagSet = &tagSet
		return nil
	})
}

// Update applies upd to the post at id inside one transaction. Supplied
// fields overwrite their columns; a supplied tag list replaces the existing
// tag set. Returns gorm.ErrRecordNotFound when no post exists at id.
func (r *BlogPostRepo) Update(ctx context.Context, id int, upd BlogPostUpdate) (*models.BlogPost, error) {
	var blogPost models.BlogPost

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("TagSet").First(&blogPost, id).Error; err != nil {
			return err
		}

		columns := map[string]any{}
		if upd.Title != nil {
			columns["title"] = *upd.Title
		}
		if upd.Body != nil {
			columns["body"] = *upd.Body
		}
		if len(columns) > 0 {
			if err := tx.Model(&blogPost).Updates(columns).Error; err != nil {
				return err
			}
		}

		if upd.Tags != nil {
			if blogPost.TagSet == nil {
				tagSet := models.TagSet{BlogPostID: blogPost.ID, Tags: *upd.Tags}
				if err := tx.Create(&tagSet).Error; err != nil {
					return err
				}
				blogPost.TagSet = &tagSet
			} else {
				blogPost.TagSet.Tags = *upd.Tags
				if err := tx.Model(blogPost.TagSet).Update("tags", blogPost.TagSet.Tags).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Delete removes the post at id and its tag set in one transaction. Zero
// affected post rows means nothing existed at id, reported as
// gorm.ErrRecordNotFound so a repeated delete stays honest.
func (r *BlogPostRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_post_id = ?", id).Delete(&models.TagSet{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.BlogPost{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
