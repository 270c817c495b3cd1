package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type jobHandler struct {
	jobs    *services.JobService
	reviews *services.ReviewService
}

// RegisterJobRoutes registers the job lifecycle routes. All of them require
// authentication; transition routes additionally require the right role.
func RegisterJobRoutes(router *gin.RouterGroup, jobs *services.JobService, reviews *services.ReviewService, secret string) {
	h := &jobHandler{jobs: jobs, reviews: reviews}

	group := router.Group("/jobs", middleware.AuthMiddleware(secret))
	{
		group.POST("", middleware.RequireRole(string(models.RoleCustomer)), h.create)
		group.GET("", h.list)
		group.GET("/:id", h.get)

		provider := middleware.RequireRole(string(models.RoleProvider))
		group.POST("/:id/accept", provider, h.accept)
		group.POST("/:id/start", provider, h.start)
		group.POST("/:id/finish", provider, h.finish)

		group.POST("/:id/cancel", h.cancel)
		group.POST("/:id/review", middleware.RequireRole(string(models.RoleCustomer)), h.review)
	}
}

func (h *jobHandler) create(c *gin.Context) {
	var req models.JobCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	job, distanceKm, err := h.jobs.Create(c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":        job,
		"distance_km": distanceKm,
	})
}

func (h *jobHandler) list(c *gin.Context) {
	filter := models.JobListFilter{
		UserID:       c.GetUint("user_id"),
		Role:         models.UserRole(c.GetString("role")),
		CategorySlug: c.Query("category"),
		OrderAsc:     c.Query("order") == "asc",
	}
	filter.Page, filter.PageSize = pageParams(c)

	if v := c.Query("status"); v != "" {
		filter.Statuses = models.ParseJobStatuses(strings.Split(v, ","))
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondInvalid(c, err)
			return
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondInvalid(c, err)
			return
		}
		filter.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondInvalid(c, err)
			return
		}
		filter.DateTo = &t
	}

	result, err := h.jobs.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *jobHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Get(id, c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *jobHandler) accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Accept(id, c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *jobHandler) start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Start(id, c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *jobHandler) finish(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Finish(id, c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *jobHandler) cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.JobCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondInvalid(c, err)
		return
	}

	job, err := h.jobs.Cancel(id, c.GetUint("user_id"), models.UserRole(c.GetString("role")), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *jobHandler) review(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	review, err := h.reviews.CreateOrUpdateForJob(id, c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": review})
}
