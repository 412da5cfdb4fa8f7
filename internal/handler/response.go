package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voyago/identity-service/internal/apperr"
	"github.com/voyago/identity-service/internal/dto"
)

// statusFor maps an error kind to an HTTP status. The adapter switches
// on the tag, never on message text.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindOTPInvalid, apperr.KindAlreadyVerified:
		return http.StatusBadRequest
	case apperr.KindAuthFailed, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateIdentity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{Success: true, Message: message})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(apperr.KindOf(err)), dto.Response{
		Success: false,
		Error:   apperr.MessageOf(err),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Response{Success: false, Error: message})
}

func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.Response{Success: false, Error: message})
}
