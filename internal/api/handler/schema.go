package handler

import (
	"time"

	"github.com/chirp/social-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Requests ---

type signupRequest struct {
	Username string `json:"username" validate:"max=50"`
	FullName string `json:"fullName" validate:"max=100"`
	Email    string `json:"email"    validate:"max=254"`
	Password string `json:"password" validate:"max=72"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FullName        string `json:"fullName"        validate:"max=100"`
	Username        string `json:"username"        validate:"max=50"`
	Email           string `json:"email"           validate:"max=254"`
	Bio             string `json:"bio"             validate:"max=500"`
	Link            string `json:"link"            validate:"omitempty,url,max=2048"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"     validate:"max=72"`
	ProfileImg      string `json:"profileImg"`
	CoverImg        string `json:"coverImg"`
}

type createPostRequest struct {
	Text string `json:"text" validate:"max=2000"`
	Img  string `json:"img"`
}

type commentRequest struct {
	Text string `json:"text" validate:"max=1000"`
}

// --- Responses ---

type commentResponse struct {
	ID        string              `json:"_id"`
	Text      string              `json:"text"`
	User      *domain.UserSummary `json:"user"`
	CreatedAt time.Time           `json:"createdAt"`
}

type postResponse struct {
	ID        string            `json:"_id"`
	User      *domain.User      `json:"user"`
	Text      string            `json:"text,omitempty"`
	Img       string            `json:"img,omitempty"`
	Likes     []string          `json:"likes"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type notificationResponse struct {
	ID        string              `json:"_id"`
	From      *domain.UserSummary `json:"from"`
	To        string              `json:"to"`
	Type      string              `json:"type"`
	Post      string              `json:"post,omitempty"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"createdAt"`
}
