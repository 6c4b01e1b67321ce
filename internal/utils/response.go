package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Result writes a pipeline result as a bare JSON object.
func Result(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, data)
}

// Failure reports a pipeline failure. Clients check for the "error" key;
// the status stays 200.
func Failure(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"error": msg})
}

// Error reports a request the pipeline could not start on.
func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}
