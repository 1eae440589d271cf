package handler

import (
	"net/http"
	"strconv"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser returns the account set by AuthMiddleware, replying 401 when
// it is missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(util.CurrentUserKey)
	if ok {
		if user, ok := v.(*models.User); ok && user != nil {
			return user, true
		}
	}
	util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
	return nil, false
}

// paramID parses a positive integer path parameter, replying 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body into req, replying 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
