// Package response renders the envelope every API endpoint answers with:
// data under success=true, or a machine-readable code plus a human message
// under success=false.
package response

import "github.com/gin-gonic/gin"

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successEnvelope{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, errorEnvelope{Success: false, Error: errorBody{Code: code, Message: message}})
}
