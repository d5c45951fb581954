// internal/pkg/response/response.go
package response

import (
	"net/http"

	"soko-service/internal/pkg/autherr"

	"github.com/gin-gonic/gin"
)

// Response is the standard success envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail resolves err through the exception registry and writes the localized
// error payload. This is the only failure shape authentication ever
// returns; stack traces and collaborator errors never reach the client.
func Fail(c *gin.Context, registry *autherr.Registry, err error) {
	c.Abort()
	resp := registry.Resolve(err, c.GetHeader("Accept-Language"))
	c.JSON(resp.Status, resp)
}
