package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanapp-server/config"
	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
	"cleanapp-server/utils"
)

type authHandler struct {
	users *services.UserService
	cfg   *config.Config
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, users *services.UserService, cfg *config.Config) {
	h := &authHandler{users: users, cfg: cfg}

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", middleware.AuthMiddleware(cfg.JWT.Secret), h.me)
	}
}

func (h *authHandler) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := h.users.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), h.cfg.JWT.Secret, h.cfg.JWT.Expiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

func (h *authHandler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), h.cfg.JWT.Secret, h.cfg.JWT.Expiry)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

func (h *authHandler) me(c *gin.Context) {
	user, err := h.users.GetMe(c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.ToResponse()})
}
