package handler

import (
	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

// --- Request → Service input ---

func toSignupInput(req signupRequest) ports.SignupInput {
	return ports.SignupInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toUpdateProfileInput(req updateProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		Bio:             req.Bio,
		Link:            req.Link,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ProfileImg:      req.ProfileImg,
		CoverImg:        req.CoverImg,
	}
}

// --- Service output → Response ---

func toPostResponse(p ports.PostDetail) postResponse {
	comments := make([]commentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID,
			Text:      c.Text,
			User:      c.User,
			CreatedAt: c.CreatedAt,
		})
	}

	likes := p.Likes
	if likes == nil {
		likes = []string{}
	}
	return postResponse{
		ID:        p.ID,
		User:      p.User,
		Text:      p.Text,
		Img:       p.Img,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResponses(posts []ports.PostDetail) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toNotificationResponses(items []ports.NotificationDetail) []notificationResponse {
	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:        n.ID,
			From:      n.From,
			To:        n.To,
			Type:      string(n.Kind),
			Post:      n.PostID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func nonNilUsers(users []*domain.User) []*domain.User {
	if users == nil {
		return []*domain.User{}
	}
	return users
}
