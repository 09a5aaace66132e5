package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, APIResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func AbortUnauthorized(c *gin.Context, msg string) {
	m := msg
	c.AbortWithStatusJSON(401, APIResponse{
		Success:   false,
		Error:     &m,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
