package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response is the data payload of a successful reply.
type Response map[string]interface{}

// Business error codes carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeTooMany      = 42901
	CodeServerErr    = 50001
)

// Success writes a 200 reply.
func Success(c *gin.Context, data Response) {
	SuccessStatus(c, http.StatusOK, data)
}

// SuccessStatus writes a reply with a custom 2xx status, e.g. 201 on create.
func SuccessStatus(c *gin.Context, status int, data Response) {
	c.JSON(status, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes an error reply.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail maps err onto the error taxonomy. Unexpected errors are logged and
// surfaced as 500 with the raw text under "error".
func Fail(c *gin.Context, err error) {
	msg := Message(err)
	switch {
	case errors.Is(err, ErrValidation):
		Error(c, http.StatusBadRequest, CodeInvalidParam, msg)
	case errors.Is(err, ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, CodeAuth, msg)
	case errors.Is(err, ErrForbidden):
		Error(c, http.StatusForbidden, CodeForbidden, msg)
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, msg)
	default:
		logrus.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(RequestIDKey),
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    CodeServerErr,
			"message": "Server Error",
			"error":   err.Error(),
		})
	}
}
