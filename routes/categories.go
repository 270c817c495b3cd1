package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type categoryHandler struct {
	categories *services.CategoryService
}

// RegisterCategoryRoutes registers category routes; mutations are admin only.
func RegisterCategoryRoutes(router *gin.RouterGroup, categories *services.CategoryService, secret string) {
	h := &categoryHandler{categories: categories}

	group := router.Group("/categories")
	{
		group.GET("", h.list)

		admin := group.Group("", middleware.AuthMiddleware(secret), middleware.RequireRole(string(models.RoleAdmin)))
		{
			admin.POST("", h.create)
			admin.DELETE("/:id", h.delete)
		}
	}
}

func (h *categoryHandler) list(c *gin.Context) {
	categories, err := h.categories.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *categoryHandler) create(c *gin.Context) {
	var req models.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	category, err := h.categories.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *categoryHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
