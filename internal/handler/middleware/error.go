package middleware

import (
	"log/slog"
	"net/http"

	"seat-queue/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors that handlers recorded without writing a body.
// Unmatched routes get the same JSON envelope as handler errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		// newest error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}

		switch status := c.Writer.Status(); {
		case status == http.StatusNotFound && c.FullPath() == "":
			c.JSON(status, httperr.NewResponse(status, "Not found", nil))
		case status == http.StatusMethodNotAllowed:
			c.JSON(status, httperr.NewResponse(status, "Method not allowed", nil))
		case status != http.StatusOK:
			c.Status(status)
			c.Writer.WriteHeaderNow()
		default:
			c.JSON(http.StatusInternalServerError, httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
		}
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}
