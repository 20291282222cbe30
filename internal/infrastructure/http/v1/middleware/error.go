// Package middleware provides HTTP middleware components.
package middleware

import (
	"github.com/gin-gonic/gin"

	"homestock/internal/core/apperror"
	"homestock/pkg/logger"
)

// ErrorHandler middleware transforms errors into the API's JSON error
// shape: { "error": string }. It is the single place that writes error
// responses; handlers only register errors on the context. Internal
// details are logged, never exposed.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			// Log internal cause if present
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
