package auth

import (
	"net/http"

	"social-service/internal/models"
	"social-service/internal/session"
	"social-service/internal/storage"

	"github.com/gin-gonic/gin"
)

// Evictor force-closes a user's live chat connections after their session
// is revoked.
type Evictor interface {
	EvictUser(userID string)
}

type Handler struct {
	service   *Service
	avatars   *storage.AvatarStore
	evictor   Evictor
	cookieTTL int
}

func NewHandler(service *Service, avatars *storage.AvatarStore, evictor Evictor, cookieTTLSeconds int) *Handler {
	return &Handler{
		service:   service,
		avatars:   avatars,
		evictor:   evictor,
		cookieTTL: cookieTTLSeconds,
	}
}

// @Summary Register a new user
// @Description Create a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse())
}

// @Summary User login
// @Description Authenticate user and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential, user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// The same credential is read back by the chat handshake.
	c.SetCookie(session.CookieName, credential, h.cookieTTL, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": credential,
		"user":  user.ToResponse(),
	})
}

// @Summary User logout
// @Description Revoke the session and close the user's chat connections
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	credential := credentialFrom(c)
	if credential != "" {
		if userID, err := h.service.Logout(c.Request.Context(), credential); err == nil && userID != "" {
			h.evictor.EvictUser(userID)
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.service.repo.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /users/me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	objectName, err := h.avatars.Upload(c.Request.Context(), CurrentIdentity(c), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.repo.UpdateAvatar(c.Request.Context(), userID, objectName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": objectName})
}
