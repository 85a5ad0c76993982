package api

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every error answer.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Code: status, Message: msg})
}
