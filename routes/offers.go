package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type offerHandler struct {
	offers *services.OfferService
}

// RegisterOfferRoutes registers the public catalog and the provider's own
// offer management routes.
func RegisterOfferRoutes(router *gin.RouterGroup, offers *services.OfferService, secret string) {
	h := &offerHandler{offers: offers}

	router.GET("/offers", h.list)

	mine := router.Group("/offers/mine",
		middleware.AuthMiddleware(secret),
		middleware.RequireRole(string(models.RoleProvider)))
	{
		mine.GET("", h.listMine)
		mine.POST("", h.create)
		mine.PUT("/:id", h.update)
		mine.DELETE("/:id", h.delete)
	}
}

func (h *offerHandler) list(c *gin.Context) {
	params := services.OfferListParams{
		CategorySlug: c.Query("category"),
	}
	params.Page, params.PageSize = pageParams(c)

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondInvalid(c, err)
			return
		}
		params.CategoryID = uint(id)
	}

	params.NearLat = queryFloat(c, "lat")
	params.NearLng = queryFloat(c, "lng")
	params.RadiusKm = queryFloat(c, "radius_km")
	if (params.NearLat == nil) != (params.NearLng == nil) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":          "INVALID_INPUT",
				"message":       "lat and lng must be provided together",
				"correlationId": c.GetString("correlation_id"),
			},
		})
		return
	}

	result, err := h.offers.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *offerHandler) listMine(c *gin.Context) {
	offers, err := h.offers.ListMine(c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": offers})
}

func (h *offerHandler) create(c *gin.Context) {
	var req models.OfferCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	offer, err := h.offers.CreateMine(c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": offer})
}

func (h *offerHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.OfferUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	offer, err := h.offers.UpdateMine(c.GetUint("user_id"), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": offer})
}

func (h *offerHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.offers.DeleteMine(c.GetUint("user_id"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "offer deleted"})
}

// queryFloat reads an optional float query parameter; malformed values are
// treated as absent.
func queryFloat(c *gin.Context, name string) *float64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
