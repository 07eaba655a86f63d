package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-app/inkwell-backend/database"
	"github.com/inkwell-app/inkwell-backend/errs"
	"github.com/inkwell-app/inkwell-backend/models"
)

// persistenceTimeout bounds every store operation a handler performs. A
// stalled query becomes a deadline error instead of stalling the request
// forever.
const persistenceTimeout = 15 * time.Second

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
	}
}

// blogTransactionResponse is the success payload of POST /posts.
type blogTransactionResponse struct {
	TransactionResult blogResponse `json:"transactionResult"`
}

// blogResponse is the success payload of PUT /posts/{postID}.
type blogResponse struct {
	Blog models.BlogPost `json:"blog"`
}

// postIDFromRequest parses the {postID} route parameter. Anything that is
// not a positive integer is a bad request and never reaches the store.
func postIDFromRequest(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "postID")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError("please provide a valid id")
	}
	return id, nil
}

// getAllBlogPosts returns every blog post with its tag set.
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		blogPosts, err := h.blogPostRepo.FindAll(ctx)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}

		if blogPosts == nil {
			blogPosts = []*models.BlogPost{}
		}
		h.responder.WriteJSON(w, blogPosts)
	}
}

// getBlogPost returns a single blog post by ID with its tag set.
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		blogPost, err := h.blogPostRepo.FindByID(ctx, postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}
		if blogPost == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}

		h.responder.WriteJSON(w, blogPost)
	}
}

// createBlogPost creates a blog post and its tag set in one transaction;
// either both rows exist afterwards or neither does.
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBlogRequest
		if err := decodeAndValidate(r, &req, "blog post"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		blogPost := models.BlogPost{
			Title:  req.Title,
			Body:   req.Body,
			UserID: req.UserID,
		}
		if err := h.blogPostRepo.Create(ctx, &blogPost, req.Tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, blogTransactionResponse{
			TransactionResult: blogResponse{Blog: blogPost},
		})
	}
}

// updateBlogPost applies the supplied fields to an existing post. Absent
// fields keep their values; a supplied tag list replaces the stored one.
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updateBlogRequest
		if err := decodeAndValidate(r, &req, "blog post update"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		blogPost, err := h.blogPostRepo.Update(ctx, postID, database.BlogPostUpdate{
			Title: req.Title,
			Body:  req.Body,
			Tags:  req.Tags,
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, blogResponse{Blog: *blogPost})
	}
}

// deleteBlogPost removes a post and its tag set. Deleting an ID that does
// not exist reports not-found, every time.
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		err = h.blogPostRepo.Delete(ctx, postID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "blog post deleted successfully",
		})
	}
}
