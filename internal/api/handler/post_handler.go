package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/api/metrics"
	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

// PostHandler handles post, like, comment and feed requests.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// All handles GET /api/posts/all.
//
// @Summary      All posts, newest first
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/posts/all [get]
func (h *PostHandler) All(c echo.Context) error {
	return h.feed(c, ports.FeedQuery{Kind: domain.FeedAll})
}

// Following handles GET /api/posts/followerPosts.
//
// @Summary      Posts by users the caller follows
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/posts/followerPosts [get]
func (h *PostHandler) Following(c echo.Context) error {
	return h.feed(c, ports.FeedQuery{Kind: domain.FeedFollowing})
}

// ByUser handles GET /api/posts/user/:username.
//
// @Summary      Posts by a user
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {array}   postResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/posts/user/{username} [get]
func (h *PostHandler) ByUser(c echo.Context) error {
	return h.feed(c, ports.FeedQuery{Kind: domain.FeedByUser, Username: c.Param("username")})
}

// Liked handles GET /api/posts/liked/:id.
//
// @Summary      Posts liked by a user
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/liked/{id} [get]
func (h *PostHandler) Liked(c echo.Context) error {
	return h.feed(c, ports.FeedQuery{Kind: domain.FeedLikedBy, UserID: c.Param("id")})
}

func (h *PostHandler) feed(c echo.Context, q ports.FeedQuery) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	q.ViewerID = me.ID

	posts, err := h.service.Feed(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(*post))
}

// Create handles POST /api/posts/create.
//
// @Summary      Create a post
// @Description  img is a base64 data URL.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/posts/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		OwnerID: me.ID,
		Text:    req.Text,
		Img:     req.Img,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(post.Img != "")).Inc()
	return c.JSON(http.StatusCreated, toPostResponse(*post))
}

// Like handles POST /api/posts/like/:id and toggles the caller's like.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string    true  "Post id"
// @Success      200  {array}   string    "Resulting liker ids"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/like/{id} [post]
func (h *PostHandler) Like(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	likes, err := h.service.ToggleLike(c.Request().Context(), c.Param("id"), me.ID)
	if err != nil {
		return err
	}

	action := "unlike"
	for _, id := range likes {
		if id == me.ID {
			action = "like"
			break
		}
	}
	metrics.LikesTotal.WithLabelValues(action).Inc()

	if likes == nil {
		likes = []string{}
	}
	return c.JSON(http.StatusOK, likes)
}

// Comment handles POST /api/posts/comment/:id.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/comment/{id} [post]
func (h *PostHandler) Comment(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.AddComment(c.Request().Context(), c.Param("id"), me.ID, req.Text)
	if err != nil {
		return err
	}

	metrics.CommentsTotal.Inc()
	return c.JSON(http.StatusOK, toPostResponse(*post))
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete one of the caller's posts
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), me.ID); err != nil {
		return err
	}

	metrics.PostsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}
