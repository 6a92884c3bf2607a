package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/logger"
)

// ErrorBody is the error part of a failure envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// SuccessResponse is the success envelope returned by every endpoint.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// WriteError writes err as a failure envelope. AppErrors keep their status,
// code and message; anything else is logged and reported as a generic
// internal error.
func WriteError(c *gin.Context, err error) {
	status, body := errorBody(c, err)
	c.JSON(status, ErrorResponse{Success: false, Error: body})
}

// AbortWithError writes err as a failure envelope and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	status, body := errorBody(c, err)
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: body})
}

// WriteData writes data in a success envelope.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

func errorBody(c *gin.Context, err error) (int, ErrorBody) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		return appErr.StatusCode, ErrorBody{Code: appErr.Code, Message: appErr.Message}
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	return apperrors.ErrInternalServer.StatusCode, ErrorBody{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}
}

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into failure envelopes. Panics are recovered and reported as
// internal errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Errorw("panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				AbortWithError(c, apperrors.ErrInternalServer)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		WriteError(c, c.Errors.Last().Err)
	}
}
