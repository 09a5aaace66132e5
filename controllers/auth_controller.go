package controllers

import (
	"errors"
	"net/http"

	"medbrain/config"
	"medbrain/models"
	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *services.AuthService
	Users *services.UserService
	Cfg   *config.Config
}

func NewAuthController(auth *services.AuthService, users *services.UserService, cfg *config.Config) *AuthController {
	return &AuthController{Auth: auth, Users: users, Cfg: cfg}
}

type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3,max=32"`
}

func (a *AuthController) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.Auth.Register(c.Request.Context(), input.Email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := utils.GenerateJWT(a.Cfg.JWTSecret, a.Cfg.JWTExpiry, user.ID, user.PublicID)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not generate token")
		return
	}

	utils.OK(c, http.StatusCreated, gin.H{"user": userView(user), "token": token})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.Auth.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountDeactivated) {
			utils.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := utils.GenerateJWT(a.Cfg.JWTSecret, a.Cfg.JWTExpiry, user.ID, user.PublicID)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not generate token")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{"user": userView(user), "token": token})
}

func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Users.ByID(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "user not found")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"user": userView(user)})
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":        user.PublicID,
		"email":     user.Email,
		"username":  user.Username,
		"onboarded": user.Onboarded,
		"preferences": gin.H{
			"insight_tone":     user.InsightTone,
			"notify_insights":  user.NotifyInsights,
			"notify_reminders": user.NotifyReminders,
		},
	}
}
