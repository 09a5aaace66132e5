package routes

import (
	"regexp"

	"medbrain/config"
	"medbrain/controllers"
	"medbrain/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators installs the custom binding rules used by the API.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return clockRe.MatchString(fl.Field().String())
		})
	}
}

type Controllers struct {
	Health    *controllers.HealthController
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Metrics   *controllers.MetricsController
	AI        *controllers.AIController
	Community *controllers.CommunityController
	Devices   *controllers.DeviceController
	Realtime  *controllers.RealtimeController
}

func SetupRouter(cfg *config.Config, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	RegisterValidators()

	r := gin.Default()

	r.GET("/health", ctrl.Health.Health)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", ctrl.Auth.Signup)
		auth.POST("/login", ctrl.Auth.Login)
	}

	authed := middlewares.AuthMiddleware(cfg.JWTSecret)

	r.GET("/api/auth/me", authed, ctrl.Auth.Me)

	user := r.Group("/api/users", authed)
	{
		user.GET("/profile", ctrl.Users.GetProfile)
		user.PUT("/profile", ctrl.Users.UpdateProfile)
		user.PUT("/preferences", ctrl.Users.UpdatePreferences)
		user.POST("/onboarding", ctrl.Users.CompleteOnboarding)
		user.DELETE("", ctrl.Users.Deactivate)
	}

	metrics := r.Group("/api/metrics", authed)
	{
		metrics.POST("/daily", ctrl.Metrics.CreateOrUpdateDaily)
		metrics.GET("/history", ctrl.Metrics.History)
		metrics.GET("/latest", ctrl.Metrics.Latest)
	}

	ai := r.Group("/api/ai", authed)
	{
		ai.POST("/analyze", ctrl.AI.Analyze)
		ai.GET("/latest", ctrl.AI.Latest)
		ai.GET("/history", ctrl.AI.History)
	}

	community := r.Group("/api/community", authed)
	{
		community.GET("/posts", ctrl.Community.Feed)
		community.POST("/posts", ctrl.Community.CreatePost)
		community.GET("/posts/:id", ctrl.Community.GetPost)
		community.POST("/posts/:id/comments", ctrl.Community.AddComment)
		community.POST("/posts/:id/reactions", ctrl.Community.SetReaction)
		community.DELETE("/posts/:id/reactions", ctrl.Community.RemoveReaction)
	}

	r.POST("/api/devices", authed, ctrl.Devices.RegisterDevice)
	r.GET("/ws/insights", authed, ctrl.Realtime.InsightsWS)

	return r
}
