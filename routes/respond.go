package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cleanapp-server/errs"
)

// respondError translates a service error into the JSON error envelope.
// Unclassified errors are logged with the correlation id and hidden behind
// a generic 500.
func respondError(c *gin.Context, err error) {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{
			"error": gin.H{
				"code":          apiErr.Code,
				"message":       apiErr.Message,
				"correlationId": c.GetString("correlation_id"),
			},
		})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":          "NOT_FOUND",
				"message":       "resource not found",
				"correlationId": c.GetString("correlation_id"),
			},
		})
		return
	}

	log.Printf("internal error [%s] %s %s: %v",
		c.GetString("correlation_id"), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":          "INTERNAL",
			"message":       "internal server error",
			"correlationId": c.GetString("correlation_id"),
		},
	})
}

// respondInvalid reports a request-binding failure.
func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":          "INVALID_INPUT",
			"message":       err.Error(),
			"correlationId": c.GetString("correlation_id"),
		},
	})
}

// pageParams reads the page/page_size query parameters. Services clamp the
// values, handlers just forward them.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return page, pageSize
}

// pathID parses a :id-style path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondInvalid(c, errors.New("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
