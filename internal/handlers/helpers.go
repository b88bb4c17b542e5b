package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/middleware"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Data    any         `json:"data"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseUnixQuery reads an optional unix-seconds query parameter. An absent
// parameter yields the zero time.
func parseUnixQuery(c *gin.Context, param string) (time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return time.Time{}, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || secs < 0 {
		return time.Time{}, apperrors.WithMessagef(apperrors.ErrInvalidInput, "Invalid %s: expected unix seconds", param)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// respond writes a successful result in the (data, message) envelope.
func respond(c *gin.Context, status int, data any, message string) {
	res := services.ResultOf(status, data, message, nil)
	c.JSON(res.StatusCode, res)
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
	} else {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}

	res := services.ResultOf(0, nil, "", err)
	c.JSON(res.StatusCode, res)
}
