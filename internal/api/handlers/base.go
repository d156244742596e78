package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/invoice-matcher/internal/api/dto"
)

// WriteError aborts the request with a structured error body.
func WriteError(c *gin.Context, status int, err dto.APIError) {
	c.AbortWithStatusJSON(status, err)
}

// ParseBoolQuery parses an optional boolean query parameter.
// Missing or unparseable values return nil.
func ParseBoolQuery(c *gin.Context, name string) *bool {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func writeInternalError(c *gin.Context) {
	WriteError(c, http.StatusInternalServerError, dto.InternalError())
}
