// Package handlers implements the HTTP endpoints of the admin API.
package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/middleware"
	"siteadmin/internal/services"
	"siteadmin/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	id, _ := userID.(string)
	if id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// actorFrom identifies the caller for the audit log.
func actorFrom(c *gin.Context) (services.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: userID, IPAddress: c.ClientIP()}, nil
}

// parsePathID parses a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// bindJSON decodes the request body into dst and runs binding validation.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err))
	}
	return nil
}

// bindQuery decodes the query string into dst and runs binding validation.
func bindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err))
	}
	return nil
}

// bindingMessage turns validator errors into one message per failed field.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// respondOK writes data in the success envelope.
func respondOK(c *gin.Context, status int, data any) {
	middleware.WriteData(c, status, data)
}
