package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type addressHandler struct {
	addresses *services.AddressService
}

// RegisterAddressRoutes registers address-related routes
func RegisterAddressRoutes(router *gin.RouterGroup, addresses *services.AddressService, secret string) {
	h := &addressHandler{addresses: addresses}

	group := router.Group("/addresses", middleware.AuthMiddleware(secret))
	{
		group.GET("", h.list)
		group.POST("", h.create)
		group.PUT("/:id/default", h.setDefault)
		group.DELETE("/:id", h.delete)
	}
}

func (h *addressHandler) list(c *gin.Context) {
	addresses, err := h.addresses.ListMine(c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": addresses})
}

func (h *addressHandler) create(c *gin.Context) {
	var req models.AddressCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	address, err := h.addresses.CreateMine(c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": address})
}

func (h *addressHandler) setDefault(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	address, err := h.addresses.SetDefaultMine(c.GetUint("user_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": address})
}

func (h *addressHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addresses.DeleteMine(c.GetUint("user_id"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}
