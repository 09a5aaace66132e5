package controllers

import (
	"errors"
	"net/http"

	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (u *UserController) GetProfile(c *gin.Context) {
	user, err := u.Users.ByID(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}
	utils.OK(c, http.StatusOK, userView(user))
}

func (u *UserController) UpdateProfile(c *gin.Context) {
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := u.Users.UpdateProfile(c.Request.Context(), c.GetUint("userID"), input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "profile update failed")
		return
	}
	utils.OK(c, http.StatusOK, userView(user))
}

func (u *UserController) UpdatePreferences(c *gin.Context) {
	var input services.PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := u.Users.UpdatePreferences(c.Request.Context(), c.GetUint("userID"), input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "preferences update failed")
		return
	}
	utils.OK(c, http.StatusOK, userView(user))
}

func (u *UserController) CompleteOnboarding(c *gin.Context) {
	user, err := u.Users.CompleteOnboarding(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "onboarding update failed")
		return
	}
	utils.OK(c, http.StatusOK, userView(user))
}

func (u *UserController) Deactivate(c *gin.Context) {
	if err := u.Users.Deactivate(c.Request.Context(), c.GetUint("userID")); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "deactivation failed")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"deactivated": true})
}
