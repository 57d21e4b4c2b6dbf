package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorInfo is the body of every error response: the request URL the
// error occurred on and a human-readable message.
type ErrorInfo struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// OK sends the payload as-is with status 200. Successful responses carry
// bare data (a journey list, a count) rather than an envelope, matching
// what the dashboard consumes.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response with the given status code
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorInfo{
		URL:     c.Request.URL.Path,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
