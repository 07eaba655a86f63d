package database

import (
	"github.com/inkwell-app/inkwell-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	userRepo     *UserRepo
	blogPostRepo *BlogPostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		blogPostRepo: NewBlogPostRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

// Migrate creates or updates the schema for every model this service owns.
// The unique index on users.email is part of the schema, so duplicate
// signups are rejected by the store itself rather than by a racy pre-check.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.BlogPost{},
		&models.TagSet{},
	)
}
