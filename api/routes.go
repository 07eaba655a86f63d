package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupRoutes wires the public and the authenticated route groups.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Use(ColoredHTTPLoggingMiddleware)

	// Public routes
	r.Get("/", rootHandler())
	r.Post("/signup", handlers.userHandler.signUp())
	r.Post("/signin", handlers.userHandler.signIn())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/posts", handlers.blogPostHandler.getAllBlogPosts())
		r.Post("/posts", handlers.blogPostHandler.createBlogPost())
		r.Get("/posts/{postID}", handlers.blogPostHandler.getBlogPost())
		r.Put("/posts/{postID}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/posts/{postID}", handlers.blogPostHandler.deleteBlogPost())
	})
}

// rootHandler answers the unauthenticated health probe.
func rootHandler() http.HandlerFunc {
	responder := NewResponder(log.Logger)
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]string{"message": "hello world"})
	}
}
