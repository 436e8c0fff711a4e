package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/pkg/i18n"
	"p2p-lending.backend/pkg/logger"
)

// Body is the error envelope returned to clients
type Body struct {
	Code    int         `json:"code"`
	Key     string      `json:"key"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message sends a success response carrying a translated message and optional data
func Message(c *gin.Context, status int, key string, data interface{}) {
	body := gin.H{"message": i18n.Translate(Language(c), key)}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr, ok := domainerrors.As(err)
	if !ok {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			appErr = domainerrors.NotFound(domainerrors.KeyNotFound, "resource not found")
		default:
			appErr = domainerrors.InternalError(err)
		}
	}

	if appErr.Code >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("key", appErr.Key),
			zap.Error(appErr.Err),
		)
	}

	msg := i18n.Translate(Language(c), appErr.Key)
	if msg == appErr.Key && appErr.Message != "" {
		msg = appErr.Message
	}

	c.JSON(appErr.Code, Body{
		Code:    appErr.Code,
		Key:     appErr.Key,
		Message: msg,
		Details: appErr.Details,
	})
}

// Abort writes an error response and stops the handler chain
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Language returns the client's preferred supported language
func Language(c *gin.Context) string {
	return i18n.Match(c.GetHeader("Accept-Language"))
}
