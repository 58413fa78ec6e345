package handler

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/internal/middleware"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/service"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/response"
)

// GetCurrentFlexTime returns this week's ledger. Public: the kids' board
// polls it without signing in.
// GET /v1/flex-time/current
func GetCurrentFlexTime(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.FlexTime().Current(ctx))
}

// AwardFlexTime adds one increment of flex time.
// POST /v1/flex-time/entries
func AwardFlexTime(ctx context.Context, c *app.RequestContext) {
	uid, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	var req dto.AwardFlexTimeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	name := displayName(ctx, uid)

	result, err := service.FlexTime().Award(ctx, uid, name, req.Note)
	if err != nil {
		if errors.Is(err, pkgerrors.FlexAtMax) && result != nil {
			response.ErrorWithDetails(ctx, c, err, map[string]interface{}{
				"newBalance": result.NewBalance,
			})
			return
		}
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// DeleteFlexTimeEntry removes the entry stamped at the given instant. The
// path parameter is the URL-escaped RFC 3339 timestamp of the entry.
// DELETE /v1/flex-time/entries/:ts
func DeleteFlexTimeEntry(ctx context.Context, c *app.RequestContext) {
	raw, err := url.PathUnescape(c.Param("ts"))
	if err != nil {
		response.Error(ctx, c, pkgerrors.InvalidRequest)
		return
	}

	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		response.Error(ctx, c, pkgerrors.InvalidRequest)
		return
	}

	result, err := service.FlexTime().DeleteEntry(ctx, ts)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetViewingWindow reports the week clock state for the current instant.
// GET /v1/flex-time/window
func GetViewingWindow(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.FlexTime().ViewingWindow())
}

func displayName(ctx context.Context, uid string) string {
	profile, err := service.Auth().Profile(ctx, uid)
	if err != nil || profile == nil {
		return ""
	}
	return profile.Name
}
