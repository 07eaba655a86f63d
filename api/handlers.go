package api

import (
	"github.com/inkwell-app/inkwell-backend/auth"
	"github.com/inkwell-app/inkwell-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens *auth.TokenService) *routeHandlers {
	return &routeHandlers{
		userHandler:     newUserHandler(database.UserRepo(), tokens),
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo()),
	}
}
