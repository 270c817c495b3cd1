package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type userHandler struct {
	users   *services.UserService
	reviews *services.ReviewService
}

// RegisterUserRoutes registers profile and public provider routes.
func RegisterUserRoutes(router *gin.RouterGroup, users *services.UserService, reviews *services.ReviewService, secret string) {
	h := &userHandler{users: users, reviews: reviews}

	me := router.Group("/users/me", middleware.AuthMiddleware(secret))
	{
		me.PUT("", h.updateMe)
		me.PUT("/password", h.changePassword)
		me.PUT("/provider", middleware.RequireRole(string(models.RoleProvider)), h.updateProviderProfile)
	}

	providers := router.Group("/providers")
	{
		providers.GET("/:id", h.getProvider)
		providers.GET("/:id/reviews", h.listProviderReviews)
	}
}

func (h *userHandler) updateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := h.users.UpdateMe(c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.ToResponse()})
}

func (h *userHandler) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.users.ChangePassword(c.GetUint("user_id"), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *userHandler) updateProviderProfile(c *gin.Context) {
	var req models.ProviderProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	profile, err := h.users.UpdateProviderProfile(c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (h *userHandler) getProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	provider, err := h.users.GetProviderPublic(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": provider})
}

func (h *userHandler) listProviderReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	result, err := h.reviews.ListForProvider(id, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
