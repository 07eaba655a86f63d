package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-app/inkwell-backend/auth"
	"github.com/inkwell-app/inkwell-backend/database"
	"github.com/inkwell-app/inkwell-backend/errs"
	"github.com/inkwell-app/inkwell-backend/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *auth.TokenService
}

func newUserHandler(userRepo *database.UserRepo, tokens *auth.TokenService) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

// signUp registers a new user and returns a signed token for the created
// account. A duplicate email is a conflict: the friendly pre-check catches
// the common case, the unique index on users.email catches the race.
func (h userHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := decodeAndValidate(r, &req, "signup"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		existing, err := h.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("user"))
			return
		}

		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		}
		if err := h.userRepo.Add(ctx, &user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		token, err := h.tokens.Issue(user.ID)
		if err != nil {
			h.logger.Error().Err(err).Int("userId", user.ID).Msg("Failed to issue token for new user")
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, tokenResponse{
			Token:   token,
			Message: "User created successfully",
		})
	}
}

// signIn exchanges valid credentials for a signed token. A wrong password
// and an unknown email produce the same response, so the endpoint does not
// reveal which emails are registered.
func (h userHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := decodeAndValidate(r, &req, "signin"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), persistenceTimeout)
		defer cancel()

		user, err := h.userRepo.FindByEmailAndPassword(ctx, req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid email or password"))
			return
		}

		token, err := h.tokens.Issue(user.ID)
		if err != nil {
			h.logger.Error().Err(err).Int("userId", user.ID).Msg("Failed to issue token")
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, tokenResponse{
			Token:   token,
			Message: "User logged in successfully",
		})
	}
}
