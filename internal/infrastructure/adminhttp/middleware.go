package adminhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"peercore/pkg/errors"
)

// ErrorHandlerMiddleware turns an AppError set via c.Error into a
// structured JSON response.
func ErrorHandlerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if appErr := errors.GetAppError(err); appErr != nil {
			logger.Warn("admin http error",
				zap.String("code", string(appErr.Code)),
				zap.String("message", appErr.Message),
				zap.Int("status", appErr.HTTPStatus),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(appErr.HTTPStatus, gin.H{
				"error":   string(appErr.Code),
				"message": appErr.Message,
			})
			return
		}

		logger.Error("unhandled admin http error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   string(errors.ErrCodeInternal),
			"message": "internal server error",
		})
	}
}
