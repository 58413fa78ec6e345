package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"KidFlex/internal/handler"
	"KidFlex/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.RequestIDMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.GeneralRateLimitMiddleware())

	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/exchange", handler.ExchangeIdentity)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetUserProfile)
	}

	// The kids' board reads without signing in; only writes need a parent.
	flexTime := v1.Group("/flex-time")
	{
		flexTime.GET("/current", handler.GetCurrentFlexTime)
		flexTime.GET("/streak", handler.GetStreak)
		flexTime.GET("/window", handler.GetViewingWindow)

		entries := flexTime.Group("/entries")
		entries.Use(middleware.AuthMiddleware(), middleware.AwardRateLimitMiddleware())
		{
			entries.POST("", handler.AwardFlexTime)
			entries.DELETE("/:ts", handler.DeleteFlexTimeEntry)
		}
	}

	preferences := v1.Group("/day-preferences")
	{
		preferences.GET("", handler.GetDayPreferences)
		preferences.GET("/watch", handler.WatchDayPreferences)
		preferences.PUT("/:participant",
			middleware.AuthMiddleware(),
			middleware.VoteRateLimitMiddleware(),
			handler.SetDayPreference,
		)
	}
}
