package middleware

import (
	"bytes"
	"io"
	"net/http"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxAuditBody = 2000

// AuditMiddleware stores one encrypted audit row per authenticated
// POST, PUT or DELETE. Must run after AuthMiddleware.
func AuditMiddleware(db *gorm.DB, cipher *util.Cipher) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		var userID uint
		if v, ok := c.Get(util.CurrentUserKey); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}

		// only a bounded prefix is buffered; the handler still reads the
		// full body through the MultiReader
		var bodyBytes []byte
		if body := c.Request.Body; body != nil {
			bodyBytes, _ = io.ReadAll(io.LimitReader(body, maxAuditBody+1))
			c.Request.Body = struct {
				io.Reader
				io.Closer
			}{io.MultiReader(bytes.NewReader(bodyBytes), body), body}
		}

		c.Next()

		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody && !isSecretPath(path) {
			action += " " + string(bodyBytes)
		}

		encPath, err := cipher.EncryptString(path)
		if err != nil {
			logrus.WithError(err).Warn("audit encrypt failed")
			return
		}
		encAction, err := cipher.EncryptString(action)
		if err != nil {
			logrus.WithError(err).Warn("audit encrypt failed")
			return
		}

		entry := models.AuditLog{
			UserID:    &userID,
			PathEnc:   encPath,
			Method:    method,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
			logrus.WithError(err).WithField("path", path).Warn("audit write failed")
		}
	}
}

// isSecretPath reports request bodies that carry passwords.
func isSecretPath(path string) bool {
	return path == "/api/auth/profile/password"
}
