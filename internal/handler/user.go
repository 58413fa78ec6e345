package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/internal/middleware"
	"KidFlex/internal/service"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/response"
)

// GetUserProfile returns the authenticated parent's profile.
// GET /v1/users/me
func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	uid, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	profile, err := service.Auth().Profile(ctx, uid)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, profile)
}
