package handler

import (
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

type updateProfileReq struct {
	FullName string `json:"fullname"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// UpdateProfile changes the caller's display name.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateProfileReq
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.Accounts.UpdateName(c.Request.Context(), user.ID, req.FullName)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"user": updated,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req changePasswordReq
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Accounts.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Password changed, please sign in again with the new password",
	})
}
