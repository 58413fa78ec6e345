package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/internal/service"
	"KidFlex/pkg/response"
)

// GetStreak reports consecutive maxed-out weeks.
// GET /v1/flex-time/streak
func GetStreak(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.Streak().CheckStreak(ctx))
}
