package social

import (
	"errors"
	"net/http"
	"strconv"

	"social-service/internal/auth"
	"social-service/internal/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, auth.CurrentIdentity(c), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary List recent posts
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts [get]
func (h *Handler) Feed(c *gin.Context) {
	posts, err := h.service.Feed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, uint(postID)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param request body models.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Router /comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, auth.CurrentIdentity(c), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Router /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, uint(commentID)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Toggle a like
// @Tags likes
// @Accept json
// @Produce json
// @Param request body models.ToggleLikeRequest true "Like target"
// @Success 200 {object} map[string]bool
// @Router /likes/toggle [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	var req models.ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	liked, err := h.service.ToggleLike(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// @Summary Add a friend
// @Tags friends
// @Produce json
// @Param id path int true "Friend user ID"
// @Success 200 {object} map[string]string
// @Router /friends/{id} [post]
func (h *Handler) AddFriend(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	friendID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.AddFriend(c.Request.Context(), userID, uint(friendID)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// @Summary Remove a friend
// @Tags friends
// @Produce json
// @Param id path int true "Friend user ID"
// @Success 200 {object} map[string]string
// @Router /friends/{id} [delete]
func (h *Handler) RemoveFriend(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	friendID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.RemoveFriend(c.Request.Context(), userID, uint(friendID)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// @Summary List friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.FriendResponse
// @Router /friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)
	friends, err := h.service.Friends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}
	c.JSON(http.StatusOK, friends)
}
