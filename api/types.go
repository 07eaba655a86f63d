package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler     userHandler
	blogPostHandler blogPostHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// signUpRequest is the payload for POST /signup.
type signUpRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// signInRequest is the payload for POST /signin.
type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// createBlogRequest is the payload for POST /posts.
type createBlogRequest struct {
	Title  string   `json:"title" validate:"required,min=3"`
	UserID int      `json:"userId" validate:"required"`
	Body   string   `json:"body" validate:"required,min=3"`
	Tags   []string `json:"tags" validate:"required"`
}

// updateBlogRequest is the payload for PUT /posts/{postID}. Nil fields are
// left unchanged; a non-nil Tags replaces the whole tag list.
type updateBlogRequest struct {
	Title *string   `json:"title" validate:"omitempty,min=3"`
	Body  *string   `json:"body" validate:"omitempty,min=3"`
	Tags  *[]string `json:"tags"`
}

// tokenResponse is the success payload of signup and signin.
type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
