package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/interfaces/http/middleware"
	"p2p-lending.backend/internal/interfaces/http/response"
)

// FieldError describes one rejected request field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindJSON decodes the body into dst and writes a 400 when it does not validate.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, bindingError(err))
		return false
	}
	return true
}

// bindQuery is bindJSON for query-string parameters
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) *domainerrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.KeyValidationFailed, "validation failed", domainerrors.ErrInvalidInput).
			WithDetails(fields)
	}
	return domainerrors.BadRequest(domainerrors.KeyBadRequest, "malformed request body")
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(domainerrors.KeyUnauthorized, "user not authenticated"))
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest(domainerrors.KeyBadRequest, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads page and limit; bad values fall back to the defaults applied downstream
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}
